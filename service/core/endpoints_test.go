package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func serve(t *testing.T, sc *ServiceContext, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	GetRouter(sc).ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, body io.Reader) sm.ServiceResponse[T] {
	t.Helper()

	var res sm.ServiceResponse[T]
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func Test_Endpoints_Health(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement()})

	rec := serve(t, sc, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, sc, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	res := decode[map[string]string](t, rec.Body)
	assert.Equal(t, "pong", (*res.Data)["message"])
	assert.Empty(t, res.Error)
}

func Test_Endpoints_Examples(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement()})

	rec := serve(t, sc, http.MethodGet, "/api/examples", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[[]sm.ExampleTicker](t, rec.Body)
	require.NotNil(t, res.Data)
	assert.Equal(t, []sm.ExampleTicker{{Name: "TCS", Symbol: "TCS.NS"}}, *res.Data)
}

func Test_Endpoints_Analysis(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement()})

	rec := serve(t, sc, http.MethodGet, "/api/analysis/TCS.NS?period=quarterly", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	res := decode[sm.AnalysisResponse](t, rec.Body)
	require.NotNil(t, res.Data)
	assert.Empty(t, res.Error)
	assert.Equal(t, "TCS.NS", res.Data.Symbol)
	assert.Equal(t, dm.Quarterly, res.Data.Frequency)
	assert.Len(t, res.Data.Metrics, 2)
	assert.True(t, res.Data.Summary.LatestNetMargin.Valid)
	assert.InDelta(t, 20, res.Data.Summary.LatestNetMargin.Float64, 1e-9)
	assert.Equal(t, []string{InsightStrongGrowth, InsightHighProfitability, InsightImprovingNetMargin}, res.Data.Insights)

	// the absent first period growth is encoded as null
	assert.False(t, res.Data.Metrics[0].RevenueGrowthPct.Valid)
}

func Test_Endpoints_AnalysisErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  *fakeSource
		target  string
		status  int
		message string
	}{
		{
			name:    "unknown symbol",
			source:  &fakeSource{err: fmt.Errorf("%w: no financial statements found for symbol NOPE", sm.ErrNotFound)},
			target:  "/api/analysis/NOPE",
			status:  http.StatusNotFound,
			message: "No financial statements found for symbol NOPE",
		},
		{
			name:    "bad period",
			source:  &fakeSource{statement: getTestStatement()},
			target:  "/api/analysis/TCS.NS?period=weekly",
			status:  http.StatusBadRequest,
			message: "Unknown period",
		},
		{
			name:    "upstream failure",
			source:  &fakeSource{err: fmt.Errorf("%w: connection refused", sm.ErrUnavailable)},
			target:  "/api/analysis/TCS.NS",
			status:  http.StatusServiceUnavailable,
			message: "please try again",
		},
		{
			name:    "duplicate periods",
			source:  &fakeSource{statement: &dm.Statement{Periods: []dm.RawPeriod{period(2022, v(1), absent, absent, absent), period(2022, v(2), absent, absent, absent)}}},
			target:  "/api/analysis/DUP",
			status:  http.StatusBadRequest,
			message: "uplicate period end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, getTestServiceContext(tt.source), http.MethodGet, tt.target, nil)

			assert.Equal(t, tt.status, rec.Code)
			res := decode[sm.AnalysisResponse](t, rec.Body)
			assert.Nil(t, res.Data)
			assert.Contains(t, res.Error, tt.message)
		})
	}
}

func Test_Endpoints_Timeout(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement(), delay: time.Second})
	sc.Config.Source.FetchTimeout = 20 * time.Millisecond

	rec := serve(t, sc, http.MethodGet, "/api/analysis/SLOW", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_Endpoints_Chart(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement()})

	rec := serve(t, sc, http.MethodGet, "/api/analysis/TCS.NS/charts/revenue.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngSignature))

	rec = serve(t, sc, http.MethodGet, "/api/analysis/TCS.NS/charts/pie.png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Endpoints_Dashboard(t *testing.T) {
	source := &fakeSource{statement: getTestStatement()}
	sc := getTestServiceContext(source)

	rec := serve(t, sc, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Please enter a stock symbol")
	assert.Equal(t, 0, source.Calls())

	// the example selection wins over the typed symbol
	rec = serve(t, sc, http.MethodGet, "/?symbol=INFY.NS&example=TCS.NS", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PnL Analysis for TCS.NS")
	assert.Equal(t, []string{"TCS.NS"}, source.symbols)

	rec = serve(t, sc, http.MethodGet, "/?symbol=TCS.NS&period=weekly", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown period")
}

func Test_Endpoints_DashboardError(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{err: fmt.Errorf("%w: no financial statements found for symbol NOPE", sm.ErrNotFound)})

	rec := serve(t, sc, http.MethodGet, "/?symbol=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "No financial statements found for symbol NOPE")
	assert.False(t, strings.Contains(body, "PnL Analysis for"))
}

func Test_Endpoints_Cors(t *testing.T) {
	sc := getTestServiceContext(&fakeSource{statement: getTestStatement()})

	rec := serve(t, sc, http.MethodOptions, "/api/ping", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodGet,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, sc, http.MethodGet, "/api/ping", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
