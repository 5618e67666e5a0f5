package yahoo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	ex "pnlanalyzer/data/extensions"
	dm "pnlanalyzer/data/models"
	c "pnlanalyzer/service/api"
	sm "pnlanalyzer/service/models"
)

const timeseriesJson = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["RELIANCE.NS"], "type": ["annualTotalRevenue"]},
        "timestamp": [1648684800, 1680220800],
        "annualTotalRevenue": [
          {"dataId": 20100, "asOfDate": "2023-03-31", "periodType": "12M", "currencyCode": "INR", "reportedValue": {"raw": 8778350000000, "fmt": "8.78T"}},
          {"dataId": 20100, "asOfDate": "2022-03-31", "periodType": "12M", "currencyCode": "INR", "reportedValue": {"raw": 6947350000000, "fmt": "6.95T"}}
        ]
      },
      {
        "meta": {"symbol": ["RELIANCE.NS"], "type": ["annualCostOfRevenue"]},
        "annualCostOfRevenue": [
          null,
          {"dataId": 20101, "asOfDate": "2023-03-31", "periodType": "12M", "currencyCode": "INR", "reportedValue": {"raw": 6000000000000, "fmt": "6T"}}
        ]
      },
      {
        "meta": {"symbol": ["RELIANCE.NS"], "type": ["annualOperatingIncome"]}
      },
      {
        "meta": {"symbol": ["RELIANCE.NS"], "type": ["annualNetIncome"]},
        "annualNetIncome": [
          {"dataId": 20102, "asOfDate": "2022-03-31", "periodType": "12M", "currencyCode": "INR", "reportedValue": {"raw": 607050000000, "fmt": "607.05B"}},
          {"dataId": 20102, "asOfDate": "2023-03-31", "periodType": "12M", "currencyCode": "INR", "reportedValue": {"raw": 667020000000, "fmt": "667.02B"}}
        ]
      }
    ],
    "error": null
  }
}`

func getTestClient(body string) (YahooClient, *c.CannedConnection) {
	conn := &c.CannedConnection{Bodies: map[string]string{"": body}}
	client := NewClient(conn)
	client.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return client, conn
}

func Test_Yahoo_BuildRequestPath(t *testing.T) {
	client, _ := getTestClient("")

	endpoint := client.buildRequestPath("TCS.NS", dm.Quarterly)
	q := endpoint.Query()

	ex.AssertAreEqual(t, "path", timeseriesPath+"TCS.NS", endpoint.Path)
	ex.AssertAreEqual(t, "type", "quarterlyTotalRevenue,quarterlyCostOfRevenue,quarterlyOperatingIncome,quarterlyNetIncome", q.Get("type"))
	ex.AssertAreEqual(t, "period2", "1717200000", q.Get("period2"))
}

func Test_Yahoo_FetchStatement(t *testing.T) {
	client, conn := getTestClient(timeseriesJson)

	res, err := client.FetchStatement(context.Background(), "RELIANCE.NS", dm.Annual)
	if err != nil {
		t.Fatalf("error fetching timeseries: %v", err)
	}

	requests := conn.Requests()
	ex.AssertAreEqual(t, "requests", 1, len(requests))
	if !strings.Contains(requests[0].Query().Get("type"), "annualNetIncome") {
		t.Fatalf("expected annual types in request, got %s", requests[0].RawQuery)
	}

	ex.AssertAreEqual(t, "provider", ProviderName, res.Provider)
	ex.AssertAreEqual(t, "currency", "INR", res.Currency)
	ex.AssertAreEqual(t, "periods", 2, len(res.Periods))

	oldest, latest := res.Periods[0], res.Periods[1]
	ex.AssertAreEqual(t, "oldest period end", time.Date(2022, time.March, 31, 0, 0, 0, 0, time.UTC), oldest.PeriodEnd)
	ex.AssertFloat(t, "oldest revenue", 6947350000000, oldest.Revenue)
	ex.AssertAbsent(t, "oldest cost of revenue", oldest.CostOfRevenue)
	ex.AssertAbsent(t, "oldest operating income", oldest.OperatingIncome)
	ex.AssertFloat(t, "oldest net income", 607050000000, oldest.NetIncome)

	ex.AssertFloat(t, "latest revenue", 8778350000000, latest.Revenue)
	ex.AssertFloat(t, "latest cost of revenue", 6000000000000, latest.CostOfRevenue)
	ex.AssertFloat(t, "latest net income", 667020000000, latest.NetIncome)
}

func Test_Yahoo_FetchStatementErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		expected error
	}{
		{"empty result", `{"timeseries": {"result": [], "error": null}}`, 0, sm.ErrNotFound},
		{"only metadata", `{"timeseries": {"result": [{"meta": {"symbol": ["NOPE"], "type": ["annualTotalRevenue"]}}], "error": null}}`, 0, sm.ErrNotFound},
		{"not found error", `{"timeseries": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`, 0, sm.ErrNotFound},
		{"bad request error", `{"timeseries": {"result": null, "error": {"code": "Bad Request", "description": "invalid"}}}`, 0, sm.ErrUnavailable},
		{"http 404", `{}`, http.StatusNotFound, sm.ErrNotFound},
		{"http 429", `Too Many Requests`, http.StatusTooManyRequests, sm.ErrUnavailable},
		{"http 502", `bad gateway`, http.StatusBadGateway, sm.ErrUnavailable},
		{"malformed", `not json`, 0, sm.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, conn := getTestClient(tt.body)
			conn.Status = tt.status

			_, err := client.FetchStatement(context.Background(), "NOPE", dm.Annual)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

const chartJson = `{
  "chart": {
    "result": [
      {
        "meta": {
          "currency": "INR",
          "symbol": "RELIANCE.NS",
          "exchangeName": "NSI",
          "instrumentType": "EQUITY",
          "regularMarketPrice": 2945.6,
          "longName": "Reliance Industries Limited",
          "shortName": "RELIANCE INDUSTRIES"
        },
        "timestamp": [1717214400],
        "indicators": {"quote": [{"close": [2945.6]}]}
      }
    ],
    "error": null
  }
}`

var _ c.ProfileSource = YahooClient{}

func Test_Yahoo_FetchProfile(t *testing.T) {
	client, conn := getTestClient(chartJson)

	profile, err := client.FetchProfile(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("error fetching profile: %v", err)
	}

	requests := conn.Requests()
	ex.AssertAreEqual(t, "requests", 1, len(requests))
	ex.AssertAreEqual(t, "path", chartPath+"RELIANCE.NS", requests[0].Path)
	ex.AssertAreEqual(t, "range", "1d", requests[0].Query().Get("range"))

	ex.AssertAreEqual(t, "symbol", "RELIANCE.NS", profile.Symbol)
	ex.AssertAreEqual(t, "name", "Reliance Industries Limited", profile.Name)
	ex.AssertAreEqual(t, "currency", "INR", profile.Currency)
	ex.AssertFloat(t, "price", 2945.6, profile.Price)
	ex.AssertAbsent(t, "market cap", profile.MarketCapitalization)
	ex.AssertAbsent(t, "pe ratio", profile.PERatio)
}

func Test_Yahoo_FetchProfileShortNameAndNoPrice(t *testing.T) {
	client, _ := getTestClient(`{"chart": {"result": [{"meta": {"currency": "usd", "shortName": "Apple Inc."}}], "error": null}}`)

	profile, err := client.FetchProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("error fetching profile: %v", err)
	}

	ex.AssertAreEqual(t, "symbol", "AAPL", profile.Symbol)
	ex.AssertAreEqual(t, "name", "Apple Inc.", profile.Name)
	ex.AssertAreEqual(t, "currency", "USD", profile.Currency)
	ex.AssertAbsent(t, "price", profile.Price)
}

func Test_Yahoo_FetchProfileErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		expected error
	}{
		{"not found error", `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`, 0, sm.ErrNotFound},
		{"empty result", `{"chart": {"result": [], "error": null}}`, 0, sm.ErrNotFound},
		{"other error", `{"chart": {"result": null, "error": {"code": "Internal Server Error", "description": "oops"}}}`, 0, sm.ErrUnavailable},
		{"http 404", `{}`, http.StatusNotFound, sm.ErrNotFound},
		{"malformed", `<html>`, 0, sm.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, conn := getTestClient(tt.body)
			conn.Status = tt.status

			_, err := client.FetchProfile(context.Background(), "NOPE")
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
