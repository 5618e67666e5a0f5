package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	dm "pnlanalyzer/data/models"
	c "pnlanalyzer/service/api"
	sm "pnlanalyzer/service/models"
)

// public
const (
	HostDefault  = "query2.finance.yahoo.com"
	ProviderName = "yahoo"
)

// private
const (
	defaultTimeout = time.Second * 30
	timeseriesPath = "ws/fundamentals-timeseries/v1/finance/timeseries/"

	// earliest period requested, yahoo keeps roughly four years of annual data
	periodStart = 493590046

	totalRevenue    = "TotalRevenue"
	costOfRevenue   = "CostOfRevenue"
	operatingIncome = "OperatingIncome"
	netIncome       = "NetIncome"
)

var lineItems = []string{totalRevenue, costOfRevenue, operatingIncome, netIncome}

type YahooClient struct {
	*c.Client
	now func() time.Time
}

// GetClient returns a client for the fundamentals timeseries api, no api key is needed
func GetClient(requestsPerMinute int) YahooClient {
	return YahooClient{
		Client: c.ClientFactory(HostDefault, "", defaultTimeout, requestsPerMinute),
		now:    time.Now,
	}
}

func NewClient(connection c.Connection) YahooClient {
	return YahooClient{
		Client: &c.Client{Connection: connection},
		now:    time.Now,
	}
}

func (yc YahooClient) Name() string {
	return ProviderName
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

type seriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

type seriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	CurrencyCode  string `json:"currencyCode"`
	ReportedValue struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

func typePrefix(frequency dm.Frequency) string {
	if frequency == dm.Quarterly {
		return "quarterly"
	}
	return "annual"
}

func (yc YahooClient) buildRequestPath(ticker string, frequency dm.Frequency) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = timeseriesPath + ticker

	types := make([]string, len(lineItems))
	for i, item := range lineItems {
		types[i] = typePrefix(frequency) + item
	}

	query := endpoint.Query()
	query.Set("type", strings.Join(types, ","))
	query.Set("period1", strconv.FormatInt(periodStart, 10))
	query.Set("period2", strconv.FormatInt(yc.now().Unix(), 10))
	endpoint.RawQuery = query.Encode()

	return endpoint
}

func (yc YahooClient) FetchStatement(ctx context.Context, ticker string, frequency dm.Frequency) (*dm.Statement, error) {
	body, err := yc.Client.Get(ctx, yc.buildRequestPath(ticker, frequency), ticker)
	if err != nil {
		return nil, err
	}

	return parseTimeseries(body, ticker, frequency)
}

func parseTimeseries(body []byte, ticker string, frequency dm.Frequency) (*dm.Statement, error) {
	var res timeseriesResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling timeseries response: %w", sm.ErrUnavailable, err)
	}

	if e := res.Timeseries.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("%w: no financial statements found for symbol %s", sm.ErrNotFound, ticker)
		}
		return nil, fmt.Errorf("%w: yahoo returned %s for %s: %s", sm.ErrUnavailable, e.Code, ticker, e.Description)
	}

	statement := &dm.Statement{
		Symbol:    ticker,
		Frequency: frequency,
		Provider:  ProviderName,
	}

	prefix := typePrefix(frequency)
	byDate := make(map[string]*dm.RawPeriod)

	for _, result := range res.Timeseries.Result {
		var meta seriesMeta
		if err := json.Unmarshal(result["meta"], &meta); err != nil || len(meta.Type) == 0 {
			continue
		}

		seriesType := meta.Type[0]
		item, ok := strings.CutPrefix(seriesType, prefix)
		if !ok {
			continue
		}

		var values []*seriesValue
		if raw, ok := result[seriesType]; ok {
			if err := json.Unmarshal(raw, &values); err != nil {
				return nil, fmt.Errorf("%w: error unmarshaling %s: %w", sm.ErrUnavailable, seriesType, err)
			}
		}

		for _, v := range values {
			// yahoo pads missing years with null
			if v == nil || v.ReportedValue.Raw == nil {
				continue
			}

			period, err := periodFor(byDate, v.AsOfDate)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", sm.ErrUnavailable, err)
			}

			if statement.Currency == "" {
				statement.Currency = strings.ToUpper(v.CurrencyCode)
			}

			value := null.FloatFrom(*v.ReportedValue.Raw)
			switch item {
			case totalRevenue:
				period.Revenue = value
			case costOfRevenue:
				period.CostOfRevenue = value
			case operatingIncome:
				period.OperatingIncome = value
			case netIncome:
				period.NetIncome = value
			}
		}
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: no financial statements found for symbol %s", sm.ErrNotFound, ticker)
	}

	statement.Periods = make([]dm.RawPeriod, 0, len(byDate))
	for _, p := range byDate {
		statement.Periods = append(statement.Periods, *p)
	}

	slices.SortFunc(statement.Periods, func(a, b dm.RawPeriod) int {
		return a.PeriodEnd.Compare(b.PeriodEnd)
	})

	return statement, nil
}

func periodFor(byDate map[string]*dm.RawPeriod, asOfDate string) (*dm.RawPeriod, error) {
	if p, ok := byDate[asOfDate]; ok {
		return p, nil
	}

	periodEnd, err := time.ParseInLocation(time.DateOnly, asOfDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("error converting date %s to time.Time: %w", asOfDate, err)
	}

	p := &dm.RawPeriod{PeriodEnd: periodEnd}
	byDate[asOfDate] = p
	return p, nil
}
