package models

import dm "pnlanalyzer/data/models"

const (
	Quarterly = 4
	Yearly    = 1
)

// PeriodsPerYear is used to annualize growth measured between statement periods
func PeriodsPerYear(f dm.Frequency) int {
	switch f {
	case dm.Quarterly:
		return Quarterly
	default:
		return Yearly
	}
}

// ConvertFrequencyToString names the unit of one statement period
func ConvertFrequencyToString(f dm.Frequency) string {
	switch f {
	case dm.Quarterly:
		return "quarters"
	case dm.Annual:
		return "years"
	default:
		return ""
	}
}
