package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// PeriodMetrics are the ratios derived for one RawPeriod. Percentages are unrounded,
// a metric whose inputs are missing is invalid rather than zero.
type PeriodMetrics struct {
	PeriodEnd          time.Time  `json:"periodEnd"`
	RevenueGrowthPct   null.Float `json:"revenueGrowthPct"`
	GrossMarginPct     null.Float `json:"grossMarginPct"`
	OperatingMarginPct null.Float `json:"operatingMarginPct"`
	NetMarginPct       null.Float `json:"netMarginPct"`
}
