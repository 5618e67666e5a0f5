package templates

import (
	"embed"
	"fmt"
)

//go:embed page/*.html partials/*.html
var Files embed.FS

type PageTemplates struct {
	Layout    string
	Dashboard string
}

type PartialTemplates struct {
	Analysis string
	Table    string
}

type TemplateHelperStruct struct {
	Page     PageTemplates
	Partials PartialTemplates
}

var TemplateHelper = TemplateHelperStruct{
	Page: PageTemplates{
		Layout:    "page/layout.html",
		Dashboard: "page/dashboard.html",
	},
	Partials: PartialTemplates{
		Analysis: "partials/analysis.html",
		Table:    "partials/table.html",
	},
}

// All lists every template path in parse order, the layout first
func All() []string {
	return []string{
		TemplateHelper.Page.Layout,
		TemplateHelper.Page.Dashboard,
		TemplateHelper.Partials.Analysis,
		TemplateHelper.Partials.Table,
	}
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading template file: %w", err))
	}

	return string(content)
}
