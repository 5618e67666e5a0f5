package alpha_vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

const (
	overviewFunction = "OVERVIEW"
)

type companyOverview struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	Currency             string `json:"Currency"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
}

// https://www.alphavantage.co/documentation/#company-overview
func (avc AlphaVantageClient) FetchProfile(ctx context.Context, ticker string) (*dm.CompanyProfile, error) {
	endpoint := avc.buildRequestPath(map[string]string{
		function: overviewFunction,
		symbol:   ticker,
	})

	body, err := avc.Client.Get(ctx, endpoint, ticker)
	if err != nil {
		return nil, err
	}

	return parseOverview(body, ticker)
}

func parseOverview(body []byte, ticker string) (*dm.CompanyProfile, error) {
	raw, err := parseRawJson(body)
	if err != nil {
		return nil, err
	}

	if err := checkProviderMessage(raw, ticker); err != nil {
		return nil, err
	}

	// unknown symbols come back as an empty object
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no company overview found for symbol %s", sm.ErrNotFound, ticker)
	}

	var overview companyOverview
	if err := json.Unmarshal(body, &overview); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling company overview: %w", sm.ErrUnavailable, err)
	}

	profile := &dm.CompanyProfile{
		Symbol:               overview.Symbol,
		Name:                 overview.Name,
		Sector:               overview.Sector,
		Industry:             overview.Industry,
		Currency:             strings.ToUpper(overview.Currency),
		MarketCapitalization: parseFloat(overview.MarketCapitalization),
		PERatio:              parseFloat(overview.PERatio),
	}

	if profile.Symbol == "" {
		profile.Symbol = ticker
	}

	return profile, nil
}
