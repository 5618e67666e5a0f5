package presentation

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	sm "pnlanalyzer/service/models"
	"pnlanalyzer/service/presentation/templates"
)

const dashboardTitle = "Stock PnL Statement Analysis"

var dashboard = parseDashboard()

func parseDashboard() *template.Template {
	t := template.New("dashboard")
	for _, path := range templates.All() {
		t = template.Must(t.Parse(templates.Get(path)))
	}
	return t
}

type HeadlineMetric struct {
	Label string
	Value string
}

type ChartLink struct {
	Title string
	URL   string
}

// DashboardPage is the view model of the html dashboard
type DashboardPage struct {
	Title          string
	Symbol         string
	Example        string
	Period         string
	Examples       []sm.ExampleTicker
	Error          string
	Analysis       *sm.AnalysisResponse
	Metrics        []HeadlineMetric
	Highlights     template.HTML
	Charts         []ChartLink
	Rows           []TableRow
	CurrencySymbol string
}

func NewDashboardPage(examples []sm.ExampleTicker, symbol, example, period string) *DashboardPage {
	if period == "" {
		period = "annual"
	}
	return &DashboardPage{
		Title:    dashboardTitle,
		Symbol:   symbol,
		Example:  example,
		Period:   period,
		Examples: examples,
	}
}

// WithError shows the user facing message for err in place of the analysis
func (p *DashboardPage) WithError(err error) *DashboardPage {
	p.Error = sm.UserMessage(err)
	p.Analysis = nil
	return p
}

// WithAnalysis fills the headline metrics, highlights, chart links and table from analysis
func (p *DashboardPage) WithAnalysis(analysis *sm.AnalysisResponse) (*DashboardPage, error) {
	highlights, err := RenderMarkdown(Highlights(analysis))
	if err != nil {
		return p, err
	}

	p.Analysis = analysis
	p.Highlights = highlights
	p.Rows = SummaryTable(analysis)
	p.CurrencySymbol = strings.TrimSpace(CurrencySymbol(analysis.Currency))
	p.Metrics = headlineMetrics(analysis)
	p.Charts = make([]ChartLink, 0, len(ChartKinds))
	for _, kind := range AvailableCharts(analysis) {
		p.Charts = append(p.Charts, ChartLink{
			Title: fmt.Sprintf("%s %s chart", analysis.Symbol, kind),
			URL:   ChartURL(analysis.Symbol, kind, analysis.Frequency.String()),
		})
	}

	return p, nil
}

func headlineMetrics(analysis *sm.AnalysisResponse) []HeadlineMetric {
	cs := CurrencySymbol(analysis.Currency)
	metrics := []HeadlineMetric{
		{Label: "Latest Revenue", Value: cs + FormatCrores(analysis.Summary.LatestRevenue) + " Cr"},
		{Label: "Net Margin", Value: FormatPercent(analysis.Summary.LatestNetMargin)},
	}

	if !analysis.Summary.LatestRevenue.Valid {
		metrics[0].Value = NotAvailable
	}

	if p := analysis.Profile; p != nil {
		price := NotAvailable
		if p.Price.Valid {
			price = CurrencySymbol(p.Currency) + fmt.Sprintf("%.2f", p.Price.Float64)
		}
		marketCap := NotAvailable
		if p.MarketCapitalization.Valid {
			marketCap = CurrencySymbol(p.Currency) + FormatWholeCrores(p.MarketCapitalization) + " Cr"
		}
		peRatio := NotAvailable
		if p.PERatio.Valid {
			peRatio = fmt.Sprintf("%.2f", p.PERatio.Float64)
		}
		metrics = append(metrics,
			HeadlineMetric{Label: "Current Price", Value: price},
			HeadlineMetric{Label: "Market Cap", Value: marketCap},
			HeadlineMetric{Label: "P/E Ratio", Value: peRatio},
		)
	}

	return metrics
}

// ChartURL is the path of the chart endpoint for symbol
func ChartURL(symbol, kind, period string) string {
	return "/api/analysis/" + url.PathEscape(symbol) + "/charts/" + kind + ".png?period=" + url.QueryEscape(period)
}

func RenderDashboard(w io.Writer, page *DashboardPage) error {
	if err := dashboard.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("error rendering dashboard: %w", err)
	}
	return nil
}
