package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/guregu/null/v6"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

const chartPath = "v8/finance/chart/"

// chartResponse is the v8 chart payload trimmed to the quote metadata
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (yc YahooClient) buildProfilePath(ticker string) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = chartPath + ticker

	query := endpoint.Query()
	query.Set("range", "1d")
	query.Set("interval", "1d")
	endpoint.RawQuery = query.Encode()

	return endpoint
}

// FetchProfile returns the current price, currency and name of ticker from the chart
// endpoint. Sector, market cap and P/E need an authenticated quote call and stay empty.
func (yc YahooClient) FetchProfile(ctx context.Context, ticker string) (*dm.CompanyProfile, error) {
	body, err := yc.Client.Get(ctx, yc.buildProfilePath(ticker), ticker)
	if err != nil {
		return nil, err
	}

	return parseChartMeta(body, ticker)
}

func parseChartMeta(body []byte, ticker string) (*dm.CompanyProfile, error) {
	var res chartResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling chart response: %w", sm.ErrUnavailable, err)
	}

	if e := res.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("%w: no quote found for symbol %s", sm.ErrNotFound, ticker)
		}
		return nil, fmt.Errorf("%w: yahoo returned %s for %s: %s", sm.ErrUnavailable, e.Code, ticker, e.Description)
	}

	if len(res.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote found for symbol %s", sm.ErrNotFound, ticker)
	}

	meta := res.Chart.Result[0].Meta
	profile := &dm.CompanyProfile{
		Symbol:   meta.Symbol,
		Name:     meta.LongName,
		Currency: strings.ToUpper(meta.Currency),
	}
	if profile.Symbol == "" {
		profile.Symbol = ticker
	}
	if profile.Name == "" {
		profile.Name = meta.ShortName
	}
	if meta.RegularMarketPrice != nil {
		profile.Price = null.FloatFrom(*meta.RegularMarketPrice)
	}

	return profile, nil
}
