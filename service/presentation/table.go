package presentation

import (
	"github.com/guregu/null/v6"

	sm "pnlanalyzer/service/models"
)

// TableRow is one period of the financial summary, amounts in crores
type TableRow struct {
	Period          string
	Revenue         string
	GrossProfit     string
	OperatingIncome string
	NetIncome       string
	RevenueGrowth   string
	GrossMargin     string
	OperatingMargin string
	NetMargin       string
}

// SummaryTable lists the periods newest first, absent values are N/A
func SummaryTable(analysis *sm.AnalysisResponse) []TableRow {
	if analysis == nil || len(analysis.Periods) != len(analysis.Metrics) {
		return nil
	}

	rows := make([]TableRow, 0, len(analysis.Periods))
	for i := len(analysis.Periods) - 1; i >= 0; i-- {
		p, m := analysis.Periods[i], analysis.Metrics[i]
		rows = append(rows, TableRow{
			Period:          PeriodLabel(p.PeriodEnd, analysis.Frequency),
			Revenue:         FormatCrores(p.Revenue),
			GrossProfit:     FormatCrores(grossProfit(p.Revenue, p.CostOfRevenue)),
			OperatingIncome: FormatCrores(p.OperatingIncome),
			NetIncome:       FormatCrores(p.NetIncome),
			RevenueGrowth:   FormatPercent(m.RevenueGrowthPct),
			GrossMargin:     FormatPercent(m.GrossMarginPct),
			OperatingMargin: FormatPercent(m.OperatingMarginPct),
			NetMargin:       FormatPercent(m.NetMarginPct),
		})
	}

	return rows
}

func grossProfit(revenue, costOfRevenue null.Float) null.Float {
	if !revenue.Valid || !costOfRevenue.Valid {
		return null.Float{}
	}
	return null.FloatFrom(revenue.Float64 - costOfRevenue.Float64)
}
