package presentation

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/yuin/goldmark"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

// growth assessment cut offs on the average revenue growth, in percent
const (
	highGrowthPct   = 15
	steadyGrowthPct = 8
)

// profitability assessment cut offs on the latest net margin, in percent
const (
	excellentMarginPct = 15
	goodMarginPct      = 10
	moderateMarginPct  = 5
)

// Highlights returns the markdown bullet lines shown under the insights
func Highlights(analysis *sm.AnalysisResponse) []string {
	if analysis == nil {
		return nil
	}

	s := analysis.Summary
	cs := CurrencySymbol(analysis.Currency)
	lines := make([]string, 0, 8)

	if s.LatestRevenue.Valid {
		lines = append(lines, fmt.Sprintf("**Latest %s Revenue**: %s%s billion", periodWord(analysis.Frequency), cs, FormatBillions(s.LatestRevenue)))
	}

	if g := s.LatestRevenueGrowth; g.Valid {
		trend := "increased"
		if g.Float64 < 0 {
			trend = "decreased"
		}
		lines = append(lines, fmt.Sprintf("**Revenue Growth**: Revenue %s by %s %s", trend, FormatPercent(null.FloatFrom(math.Abs(g.Float64))), comparisonWord(analysis.Frequency)))
	}

	if s.LatestGrossMargin.Valid {
		lines = append(lines, fmt.Sprintf("**Gross Margin**: %s - indicates pricing power and cost efficiency", FormatPercent(s.LatestGrossMargin)))
	}
	if s.LatestOperatingMargin.Valid {
		lines = append(lines, fmt.Sprintf("**Operating Margin**: %s - shows operational efficiency", FormatPercent(s.LatestOperatingMargin)))
	}
	if s.LatestNetMargin.Valid {
		lines = append(lines, fmt.Sprintf("**Net Margin**: %s - overall profitability after all expenses", FormatPercent(s.LatestNetMargin)))
	}

	if line, ok := profitabilityAssessment(s.LatestNetMargin); ok {
		lines = append(lines, line)
	}

	if line, ok := growthAssessment(s.AverageGrowth); ok {
		lines = append(lines, line)
	}

	if s.RevenueCAGR.Valid && s.RevenueCAGRSpan > 0 {
		lines = append(lines, fmt.Sprintf("**Revenue CAGR**: %s per year over %s", FormatPercent(s.RevenueCAGR), spanWords(s.RevenueCAGRSpan, analysis.Frequency)))
	}

	if p := analysis.Profile; p != nil {
		sector := p.Sector
		if sector == "" {
			sector = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("**Industry**: %s sector company", sector))

		if p.MarketCapitalization.Valid && p.MarketCapitalization.Float64 > 0 {
			lines = append(lines, fmt.Sprintf("**Market Capitalization**: %s%s crores", CurrencySymbol(p.Currency), FormatWholeCrores(p.MarketCapitalization)))
		}
	}

	return lines
}

func profitabilityAssessment(netMargin null.Float) (string, bool) {
	if !netMargin.Valid {
		return "", false
	}

	m := netMargin.Float64
	switch {
	case m > excellentMarginPct:
		return "**Profitability Assessment**: Excellent profitability - company demonstrates strong pricing power", true
	case m > goodMarginPct:
		return "**Profitability Assessment**: Good profitability - healthy business model", true
	case m > moderateMarginPct:
		return "**Profitability Assessment**: Moderate profitability - room for improvement", true
	default:
		return "**Profitability Assessment**: Low profitability - may indicate competitive pressures", true
	}
}

func growthAssessment(averageGrowth null.Float) (string, bool) {
	if !averageGrowth.Valid {
		return "", false
	}

	g := averageGrowth.Float64
	switch {
	case g > highGrowthPct:
		return "**Growth Assessment**: High growth company - expanding rapidly", true
	case g > steadyGrowthPct:
		return "**Growth Assessment**: Steady growth - consistent business expansion", true
	case g > 0:
		return "**Growth Assessment**: Moderate growth - stable business", true
	default:
		return "**Growth Assessment**: Declining revenue - business challenges evident", true
	}
}

// spanWords reads "1 year", "3 years" or "4 quarters"
func spanWords(span int, frequency dm.Frequency) string {
	unit := sm.ConvertFrequencyToString(frequency)
	if span == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", span, unit)
}

func periodWord(frequency dm.Frequency) string {
	if frequency == dm.Quarterly {
		return "Quarterly"
	}
	return "Annual"
}

func comparisonWord(frequency dm.Frequency) string {
	if frequency == dm.Quarterly {
		return "quarter-over-quarter"
	}
	return "year-over-year"
}

// RenderMarkdown turns the highlight lines into an html bullet list
func RenderMarkdown(lines []string) (template.HTML, error) {
	if len(lines) == 0 {
		return "", nil
	}

	var md strings.Builder
	for _, line := range lines {
		md.WriteString("- ")
		md.WriteString(line)
		md.WriteString("\n")
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("error rendering highlights: %w", err)
	}

	// goldmark drops raw html unless configured otherwise
	return template.HTML(buf.String()), nil
}
