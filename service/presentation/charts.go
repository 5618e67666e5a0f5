package presentation

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/vicanso/go-charts/v2"

	ex "pnlanalyzer/data/extensions"
	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

const (
	ChartRevenue = "revenue"
	ChartMargins = "margins"
	ChartGrowth  = "growth"
	ChartProfit  = "profit"

	chartWidth  = 800
	chartHeight = 400
)

// ChartKinds lists the charts in the order the dashboard shows them
var ChartKinds = []string{ChartRevenue, ChartMargins, ChartGrowth, ChartProfit}

type series struct {
	name   string
	values []null.Float
}

// RenderChart draws one chart of the analysis as a png. Absent values are left as gaps.
func RenderChart(kind string, analysis *sm.AnalysisResponse) ([]byte, error) {
	if analysis == nil || len(analysis.Metrics) == 0 {
		return nil, fmt.Errorf("%w: nothing to chart", sm.ErrInvalidInput)
	}

	list, chartTyp, subtitle, err := chartSeries(kind, analysis)
	if err != nil {
		return nil, err
	}

	// series without a single value would leave the axis without a range
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no %s data reported for %s", sm.ErrNotFound, kind, analysis.Symbol)
	}

	labels := ex.Map(analysis.Metrics, func(m dm.PeriodMetrics) string { return PeriodLabel(m.PeriodEnd, analysis.Frequency) })
	title := analysis.Symbol

	values := make([][]float64, len(list))
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.name
		values[i] = chartValues(s.values, chartTyp)
	}

	seriesList := charts.NewSeriesListDataFromValues(values, chartTyp)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: boundaryGap(chartTyp)}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", kind, err)
	}

	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s chart bytes: %w", kind, err)
	}

	return buf, nil
}

// AvailableCharts lists the chart kinds that have at least one reported value
func AvailableCharts(analysis *sm.AnalysisResponse) []string {
	if analysis == nil || len(analysis.Metrics) == 0 {
		return nil
	}

	return ex.FilterMultiple(ChartKinds, func(kind string) bool {
		list, _, _, err := chartSeries(kind, analysis)
		return err == nil && len(list) > 0
	})
}

// chartSeries picks the series of a chart kind, dropping the ones without any value
func chartSeries(kind string, analysis *sm.AnalysisResponse) (list []series, chartTyp string, subtitle string, err error) {
	cs := strings.TrimSpace(CurrencySymbol(analysis.Currency))

	switch kind {
	case ChartRevenue:
		chartTyp, subtitle = charts.ChartTypeBar, fmt.Sprintf("Revenue (%s billions)", cs)
		list = []series{{"Revenue", ex.Map(analysis.Periods, func(p dm.RawPeriod) null.Float { return billions(p.Revenue) })}}
	case ChartMargins:
		chartTyp, subtitle = charts.ChartTypeLine, "Profit margins (%)"
		list = []series{
			{"Gross Margin %", ex.Map(analysis.Metrics, func(m dm.PeriodMetrics) null.Float { return m.GrossMarginPct })},
			{"Operating Margin %", ex.Map(analysis.Metrics, func(m dm.PeriodMetrics) null.Float { return m.OperatingMarginPct })},
			{"Net Margin %", ex.Map(analysis.Metrics, func(m dm.PeriodMetrics) null.Float { return m.NetMarginPct })},
		}
	case ChartGrowth:
		chartTyp, subtitle = charts.ChartTypeBar, "Revenue growth rate (%)"
		list = []series{{"Revenue Growth %", ex.Map(analysis.Metrics, func(m dm.PeriodMetrics) null.Float { return m.RevenueGrowthPct })}}
	case ChartProfit:
		chartTyp, subtitle = charts.ChartTypeBar, fmt.Sprintf("Profitability comparison (%s billions)", cs)
		list = []series{
			{"Gross Profit", ex.Map(analysis.Periods, func(p dm.RawPeriod) null.Float { return billions(grossProfit(p.Revenue, p.CostOfRevenue)) })},
			{"Operating Income", ex.Map(analysis.Periods, func(p dm.RawPeriod) null.Float { return billions(p.OperatingIncome) })},
			{"Net Income", ex.Map(analysis.Periods, func(p dm.RawPeriod) null.Float { return billions(p.NetIncome) })},
		}
	default:
		return nil, "", "", fmt.Errorf("%w: unknown chart %q, expected one of %s", sm.ErrInvalidInput, kind, strings.Join(ChartKinds, ", "))
	}

	list = ex.FilterMultiple(list, func(s series) bool { return len(ex.ValidFloats(s.values)) > 0 })
	return list, chartTyp, subtitle, nil
}

func billions(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(Billions(v.Float64))
}

// chartValues maps absent points to gaps on lines and to empty bars
func chartValues(values []null.Float, chartTyp string) []float64 {
	res := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v.Valid:
			res[i] = v.Float64
		case chartTyp == charts.ChartTypeLine:
			res[i] = charts.GetNullValue()
		default:
			res[i] = 0
		}
	}
	return res
}

func boundaryGap(chartTyp string) *bool {
	if chartTyp == charts.ChartTypeLine {
		return charts.FalseFlag()
	}
	return charts.TrueFlag()
}
