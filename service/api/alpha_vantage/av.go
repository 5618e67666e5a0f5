package alpha_vantage

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	c "pnlanalyzer/service/api"
	sm "pnlanalyzer/service/models"
)

// public
const (
	HostDefault  = "www.alphavantage.co"
	ProviderName = "alphavantage"
)

// private
const (
	// default query parameters
	defaultDataType = "json"
	defaultTimeout  = time.Second * 30

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"

	// response keys the provider uses instead of an error status
	errorMessageKey = "Error Message"
	noteKey         = "Note"
	informationKey  = "Information"
)

var (
	fiscalDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}
)

type AlphaVantageClient struct {
	*c.Client
}

// GetClient returns a client for the public api, requestsPerMinute matches the key's plan
func GetClient(apiKey string, requestsPerMinute int) AlphaVantageClient {
	return AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, defaultTimeout, requestsPerMinute),
	}
}

// NewClient wraps an existing connection, tests use it to serve canned payloads
func NewClient(connection c.Connection, apiKey string) AlphaVantageClient {
	return AlphaVantageClient{
		&c.Client{Connection: connection, ApiKey: apiKey},
	}
}

func (avc AlphaVantageClient) Name() string {
	return ProviderName
}

func (avc AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(body []byte) (raw map[string]json.RawMessage, err error) {
	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling response: %w", sm.ErrUnavailable, err)
	}

	return
}

// checkProviderMessage turns the provider's in-body error messages into error kinds.
// An invalid symbol is reported as an "Error Message", throttling as a "Note" or "Information".
func checkProviderMessage(raw map[string]json.RawMessage, ticker string) error {
	if msg, ok := raw[errorMessageKey]; ok {
		return fmt.Errorf("%w: no financial statements found for symbol %s (%s)", sm.ErrNotFound, ticker, unquote(msg))
	}

	for _, key := range []string{noteKey, informationKey} {
		if msg, ok := raw[key]; ok {
			return fmt.Errorf("%w: alpha vantage refused the request for %s: %s", sm.ErrUnavailable, ticker, unquote(msg))
		}
	}

	return nil
}

func unquote(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return string(msg)
	}
	return s
}

func parseDate(dateString string) (time.Time, error) {
	for _, format := range fiscalDateFormats {
		t, err := time.ParseInLocation(format, dateString, time.UTC)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

// parseFloat reads a provider number, "None" and empty strings are absent
func parseFloat(val string) null.Float {
	val = strings.TrimSpace(val)
	if val != "" && !strings.EqualFold(val, "None") && val != "-" {
		if conv, err := strconv.ParseFloat(val, 64); err == nil {
			return null.FloatFrom(conv)
		}
	}
	return null.NewFloat(0, false)
}
