package core

import (
	ex "pnlanalyzer/data/extensions"
	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

const (
	InsightStrongGrowth       = "strong revenue growth"
	InsightModerateGrowth     = "moderate revenue growth"
	InsightRevenueDecline     = "revenue decline"
	InsightHighProfitability  = "high profitability"
	InsightModerateProfit     = "moderate profitability"
	InsightLowProfitability   = "low/negative profitability"
	InsightImprovingNetMargin = "improving net margin trend"
	InsightDecliningNetMargin = "declining net margin trend"
)

type InsightGenerator struct {
	thresholds sm.InsightThresholds
}

func NewInsightGenerator(thresholds sm.InsightThresholds) InsightGenerator {
	return InsightGenerator{thresholds: thresholds}
}

// Generate returns the qualitative statements for a metric series in rule order:
// revenue growth, profitability, net margin trend. Rules whose metric is absent are skipped.
func (g InsightGenerator) Generate(metrics []dm.PeriodMetrics) []string {
	insights := make([]string, 0, 3)

	// the most recent period that carries either of the headline metrics
	latest, ok := ex.FilterLast(metrics, func(m dm.PeriodMetrics) bool {
		return m.RevenueGrowthPct.Valid || m.NetMarginPct.Valid
	})

	if ok && latest.RevenueGrowthPct.Valid {
		insights = append(insights, g.growthInsight(latest.RevenueGrowthPct.Float64))
	}

	if ok && latest.NetMarginPct.Valid {
		insights = append(insights, g.profitabilityInsight(latest.NetMarginPct.Float64))
	}

	withMargin := ex.FilterMultiple(metrics, func(m dm.PeriodMetrics) bool { return m.NetMarginPct.Valid })
	if n := len(withMargin); n >= 2 {
		current, previous := withMargin[n-1].NetMarginPct.Float64, withMargin[n-2].NetMarginPct.Float64
		switch {
		case current > previous:
			insights = append(insights, InsightImprovingNetMargin)
		case current < previous:
			insights = append(insights, InsightDecliningNetMargin)
		}
	}

	return insights
}

func (g InsightGenerator) growthInsight(growthPct float64) string {
	switch {
	case growthPct >= g.thresholds.StrongGrowthPct:
		return InsightStrongGrowth
	case growthPct >= g.thresholds.ModerateGrowthPct:
		return InsightModerateGrowth
	default:
		return InsightRevenueDecline
	}
}

func (g InsightGenerator) profitabilityInsight(netMarginPct float64) string {
	switch {
	case netMarginPct >= g.thresholds.HighMarginPct:
		return InsightHighProfitability
	case netMarginPct >= g.thresholds.ModerateMarginPct:
		return InsightModerateProfit
	default:
		return InsightLowProfitability
	}
}
