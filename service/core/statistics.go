package core

import (
	"math"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	ex "pnlanalyzer/data/extensions"
	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

// Summarize builds the series wide figures shown next to the insights.
// periods and metrics are index aligned, both oldest first.
func Summarize(frequency dm.Frequency, periods []dm.RawPeriod, metrics []dm.PeriodMetrics) sm.Summary {
	summary := sm.Summary{Periods: len(metrics)}
	if len(metrics) == 0 || len(periods) != len(metrics) {
		return summary
	}

	last := len(metrics) - 1
	summary.LatestRevenue = periods[last].Revenue
	summary.LatestRevenueGrowth = metrics[last].RevenueGrowthPct
	summary.LatestGrossMargin = metrics[last].GrossMarginPct
	summary.LatestOperatingMargin = metrics[last].OperatingMarginPct
	summary.LatestNetMargin = metrics[last].NetMarginPct

	growthRates := ex.ValidFloats(ex.Map(metrics, func(m dm.PeriodMetrics) null.Float { return m.RevenueGrowthPct }))
	if len(growthRates) > 0 {
		summary.AverageGrowth = null.FloatFrom(stat.Mean(growthRates, nil))
	}
	if len(growthRates) > 1 {
		summary.GrowthStdDev = null.FloatFrom(stat.StdDev(growthRates, nil))
	}

	summary.RevenueCAGR, summary.RevenueCAGRSpan = revenueCAGR(periods, sm.PeriodsPerYear(frequency))

	return summary
}

// revenueCAGR annualizes the growth between the first and last periods with positive revenue.
// span is the number of periods between those two, zero when there is no rate.
func revenueCAGR(periods []dm.RawPeriod, periodsPerYear int) (cagr null.Float, span int) {
	first, last := -1, -1
	for i, p := range periods {
		if p.Revenue.Valid && p.Revenue.Float64 > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 || last <= first || periodsPerYear <= 0 {
		return null.Float{}, 0
	}

	years := float64(last-first) / float64(periodsPerYear)
	ratio := periods[last].Revenue.Float64 / periods[first].Revenue.Float64
	return null.FloatFrom((math.Pow(ratio, 1/years) - 1) * 100), last - first
}
