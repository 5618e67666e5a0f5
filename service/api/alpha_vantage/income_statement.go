package alpha_vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/guregu/null/v6"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

const (
	incomeStatementFunction = "INCOME_STATEMENT"
	annualReportsKey        = "annualReports"
	quarterlyReportsKey     = "quarterlyReports"
)

// income statement report fields
const (
	fiscalDateEnding = "fiscalDateEnding"
	reportedCurrency = "reportedCurrency"
	totalRevenue     = "totalRevenue"
	costOfRevenue    = "costOfRevenue"
	costOfGoodsSold  = "costofGoodsAndServicesSold"
	grossProfit      = "grossProfit"
	operatingIncome  = "operatingIncome"
	netIncome        = "netIncome"
)

// https://www.alphavantage.co/documentation/#income-statement
func (avc AlphaVantageClient) FetchStatement(ctx context.Context, ticker string, frequency dm.Frequency) (*dm.Statement, error) {
	endpoint := avc.buildRequestPath(map[string]string{
		function: incomeStatementFunction,
		symbol:   ticker,
	})

	body, err := avc.Client.Get(ctx, endpoint, ticker)
	if err != nil {
		return nil, err
	}

	return parseIncomeStatement(body, ticker, frequency)
}

func parseIncomeStatement(body []byte, ticker string, frequency dm.Frequency) (*dm.Statement, error) {
	raw, err := parseRawJson(body)
	if err != nil {
		return nil, err
	}

	if err := checkProviderMessage(raw, ticker); err != nil {
		return nil, err
	}

	key := annualReportsKey
	if frequency == dm.Quarterly {
		key = quarterlyReportsKey
	}

	var reports []map[string]string
	if rawReports, ok := raw[key]; ok {
		if err := json.Unmarshal(rawReports, &reports); err != nil {
			return nil, fmt.Errorf("%w: error unmarshaling %s: %w", sm.ErrUnavailable, key, err)
		}
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: no financial statements found for symbol %s", sm.ErrNotFound, ticker)
	}

	statement := &dm.Statement{
		Symbol:    ticker,
		Frequency: frequency,
		Provider:  ProviderName,
		Periods:   make([]dm.RawPeriod, 0, len(reports)),
	}

	if s := unquote(raw[symbol]); s != "" && len(raw[symbol]) > 0 {
		statement.Symbol = s
	}

	for _, report := range reports {
		periodEnd, err := parseDate(report[fiscalDateEnding])
		if err != nil {
			return nil, fmt.Errorf("%w: error parsing %s: %w", sm.ErrUnavailable, fiscalDateEnding, err)
		}

		if statement.Currency == "" {
			statement.Currency = strings.ToUpper(report[reportedCurrency])
		}

		revenue := parseFloat(report[totalRevenue])
		statement.Periods = append(statement.Periods, dm.RawPeriod{
			PeriodEnd:       periodEnd,
			Revenue:         revenue,
			CostOfRevenue:   parseCostOfRevenue(report, revenue),
			OperatingIncome: parseFloat(report[operatingIncome]),
			NetIncome:       parseFloat(report[netIncome]),
		})
	}

	// reports come newest first
	slices.SortStableFunc(statement.Periods, func(a, b dm.RawPeriod) int {
		return a.PeriodEnd.Compare(b.PeriodEnd)
	})

	return statement, nil
}

// parseCostOfRevenue prefers the reported line, then cost of goods sold, then revenue less gross profit
func parseCostOfRevenue(report map[string]string, revenue null.Float) null.Float {
	if cost := parseFloat(report[costOfRevenue]); cost.Valid {
		return cost
	}

	if cost := parseFloat(report[costOfGoodsSold]); cost.Valid {
		return cost
	}

	if gross := parseFloat(report[grossProfit]); gross.Valid && revenue.Valid {
		return null.FloatFrom(revenue.Float64 - gross.Float64)
	}

	return null.Float{}
}
