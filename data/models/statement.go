package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

type Frequency uint8

const (
	Annual Frequency = iota
	Quarterly
)

func (f Frequency) String() string {
	switch f {
	case Annual:
		return "annual"
	case Quarterly:
		return "quarterly"
	default:
		return ""
	}
}

func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, ok := ParseFrequency(string(text))
	if !ok {
		return fmt.Errorf("unknown frequency %q", text)
	}
	*f = parsed
	return nil
}

// ParseFrequency maps a query value to a Frequency, empty defaults to annual
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual", "yearly", "y":
		return Annual, true
	case "quarterly", "quarter", "q":
		return Quarterly, true
	default:
		return Annual, false
	}
}

// RawPeriod is one reported fiscal period, any line item may be absent (not reported)
type RawPeriod struct {
	PeriodEnd       time.Time  `json:"periodEnd"`
	Revenue         null.Float `json:"revenue"`
	CostOfRevenue   null.Float `json:"costOfRevenue"`
	OperatingIncome null.Float `json:"operatingIncome"`
	NetIncome       null.Float `json:"netIncome"`
}

// Statement is the income statement table returned by a statement source.
// Periods are ordered oldest first.
type Statement struct {
	Symbol    string      `json:"symbol"`
	Currency  string      `json:"currency"`
	Frequency Frequency   `json:"frequency"`
	Provider  string      `json:"provider"`
	Periods   []RawPeriod `json:"periods"`
}

type CompanyProfile struct {
	Symbol               string     `json:"symbol"`
	Name                 string     `json:"name"`
	Sector               string     `json:"sector"`
	Industry             string     `json:"industry"`
	Currency             string     `json:"currency"`
	Price                null.Float `json:"price"`
	MarketCapitalization null.Float `json:"marketCapitalization"`
	PERatio              null.Float `json:"peRatio"`
}
