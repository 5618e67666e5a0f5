package presentation

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	dm "pnlanalyzer/data/models"
)

const NotAvailable = "N/A"

var (
	crore   = decimal.New(1, 7)
	billion = decimal.New(1, 9)
)

// FormatCrores renders an amount in crores (1e7) with two decimals
func FormatCrores(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v.Float64).Div(crore).StringFixed(2)
}

// FormatWholeCrores is FormatCrores without decimals, used for market capitalization
func FormatWholeCrores(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v.Float64).Div(crore).StringFixed(0)
}

func FormatBillions(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v.Float64).Div(billion).StringFixed(2)
}

// Billions converts an amount for chart axes
func Billions(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Div(billion).Round(4).Float64()
	return f
}

// FormatPercent renders a percentage with one decimal
func FormatPercent(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(1) + "%"
}

func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "INR":
		return "₹"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	case "":
		return ""
	default:
		return strings.ToUpper(currency) + " "
	}
}

// PeriodLabel is the year for annual statements and month and year for quarterly ones
func PeriodLabel(periodEnd time.Time, frequency dm.Frequency) string {
	if frequency == dm.Quarterly {
		return periodEnd.Format("Jan 2006")
	}
	return periodEnd.Format("2006")
}
