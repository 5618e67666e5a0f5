package core

import (
	"fmt"
	"slices"

	"github.com/guregu/null/v6"

	ex "pnlanalyzer/data/extensions"
	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

// ComputeMetrics derives margins and revenue growth for every period, oldest first.
// It only fails for an empty input or a repeated period end, missing line items
// produce absent metrics.
func ComputeMetrics(periods []dm.RawPeriod) ([]dm.PeriodMetrics, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no statement periods to compute metrics for", sm.ErrInvalidInput)
	}

	sorted := SortPeriods(periods)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].PeriodEnd.Equal(sorted[i-1].PeriodEnd) {
			return nil, fmt.Errorf("%w: duplicate period end %s", sm.ErrInvalidInput, ex.FmtShort(sorted[i].PeriodEnd))
		}
	}

	res := make([]dm.PeriodMetrics, len(sorted))
	for i, p := range sorted {
		res[i] = dm.PeriodMetrics{
			PeriodEnd:          p.PeriodEnd,
			GrossMarginPct:     grossMargin(p),
			OperatingMarginPct: margin(p.OperatingIncome, p.Revenue),
			NetMarginPct:       margin(p.NetIncome, p.Revenue),
		}

		if i > 0 {
			res[i].RevenueGrowthPct = growth(p.Revenue, sorted[i-1].Revenue)
		}
	}

	return res, nil
}

// SortPeriods returns a copy of periods ordered oldest first, callers keep their slice as given
func SortPeriods(periods []dm.RawPeriod) []dm.RawPeriod {
	sorted := slices.Clone(periods)
	slices.SortStableFunc(sorted, func(a, b dm.RawPeriod) int {
		return a.PeriodEnd.Compare(b.PeriodEnd)
	})
	return sorted
}

func grossMargin(p dm.RawPeriod) null.Float {
	if !p.Revenue.Valid || !p.CostOfRevenue.Valid || p.Revenue.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom((p.Revenue.Float64 - p.CostOfRevenue.Float64) / p.Revenue.Float64 * 100)
}

func margin(line, revenue null.Float) null.Float {
	if !line.Valid || !revenue.Valid || revenue.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(line.Float64 / revenue.Float64 * 100)
}

func growth(current, previous null.Float) null.Float {
	if !current.Valid || !previous.Valid || previous.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom((current.Float64 - previous.Float64) / previous.Float64 * 100)
}
