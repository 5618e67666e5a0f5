package models

import (
	"github.com/guregu/null/v6"

	dm "pnlanalyzer/data/models"
)

// AnalysisResponse is what the analysis endpoint and the dashboard render
type AnalysisResponse struct {
	RequestId string             `json:"requestId"`
	Symbol    string             `json:"symbol"`
	Frequency dm.Frequency       `json:"frequency"`
	Provider  string             `json:"provider"`
	Currency  string             `json:"currency"`
	Cached    bool               `json:"cached"`
	Profile   *dm.CompanyProfile `json:"profile"`
	Periods   []dm.RawPeriod     `json:"periods"`
	Metrics   []dm.PeriodMetrics `json:"metrics"`
	Insights  []string           `json:"insights"`
	Summary   Summary            `json:"summary"`
	Notices   []string           `json:"notices"`
}

// Summary holds figures over the whole metric series, absent when the inputs are missing
type Summary struct {
	Periods               int        `json:"periods"`
	LatestRevenue         null.Float `json:"latestRevenue"`
	LatestRevenueGrowth   null.Float `json:"latestRevenueGrowth"`
	LatestGrossMargin     null.Float `json:"latestGrossMargin"`
	LatestOperatingMargin null.Float `json:"latestOperatingMargin"`
	LatestNetMargin       null.Float `json:"latestNetMargin"`
	AverageGrowth         null.Float `json:"averageRevenueGrowth"`
	GrowthStdDev          null.Float `json:"revenueGrowthStdDev"`
	RevenueCAGR           null.Float `json:"revenueCagr"`
	RevenueCAGRSpan       int        `json:"revenueCagrSpan"`
}

type ExampleTicker struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
}
