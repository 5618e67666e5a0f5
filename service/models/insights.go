package models

import "fmt"

// InsightThresholds are the cut offs for the qualitative buckets, all in percent.
// A value equal to a cut off falls in the higher bucket.
type InsightThresholds struct {
	StrongGrowthPct   float64 `yaml:"strong_growth_pct" json:"strongGrowthPct"`
	ModerateGrowthPct float64 `yaml:"moderate_growth_pct" json:"moderateGrowthPct"`
	HighMarginPct     float64 `yaml:"high_margin_pct" json:"highMarginPct"`
	ModerateMarginPct float64 `yaml:"moderate_margin_pct" json:"moderateMarginPct"`
}

func DefaultInsightThresholds() InsightThresholds {
	return InsightThresholds{
		StrongGrowthPct:   15,
		ModerateGrowthPct: 0,
		HighMarginPct:     15,
		ModerateMarginPct: 5,
	}
}

func (t InsightThresholds) Validate() error {
	if t.ModerateGrowthPct > t.StrongGrowthPct {
		return fmt.Errorf("moderate_growth_pct (%.2f) must not exceed strong_growth_pct (%.2f)", t.ModerateGrowthPct, t.StrongGrowthPct)
	}
	if t.ModerateMarginPct > t.HighMarginPct {
		return fmt.Errorf("moderate_margin_pct (%.2f) must not exceed high_margin_pct (%.2f)", t.ModerateMarginPct, t.HighMarginPct)
	}
	return nil
}
