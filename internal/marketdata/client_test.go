package marketdata

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}
	return c, server
}

func TestGetDailyBars(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/daily", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2023-01-02", r.URL.Query().Get("start"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2023-01-02","close":150.5,"adj_close":149.8},
			{"date":"2023-01-03","close":151.2,"adj_close":150.4}
		]`))
	})
	client, server := setupTestServer(handler)
	defer server.Close()

	bars, err := client.GetDailyBars("AAPL", "2023-01-02", "")

	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2023-01-02", bars[0].Date)
	assert.InDelta(t, 150.5, bars[0].Close, 1e-9)
}

func TestGetDailyBars_ClientErrorIsNotRetried(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, server := setupTestServer(handler)
	defer server.Close()

	_, err := client.GetDailyBars("AAPL", "", "")

	assert.Error(t, err)
	assert.Equal(t, 1, requests)
}

type stubProvider struct {
	bars map[string][]Bar
}

func (p *stubProvider) GetDailyBars(ticker, start, end string) ([]Bar, error) {
	return p.bars[ticker], nil
}

func TestFetchPanel_AssemblesUnionOfDates(t *testing.T) {
	provider := &stubProvider{bars: map[string][]Bar{
		"AAPL": {
			{Date: "2023-01-02", Close: 150},
			{Date: "2023-01-03", Close: 151},
		},
		"MSFT": {
			// No bar on the 2nd, adjusted close fills a missing close.
			{Date: "2023-01-03", AdjClose: 300},
		},
	}}

	panel, err := FetchPanel(provider, []string{"AAPL", "MSFT"}, "", "")

	require.NoError(t, err)
	require.Equal(t, 2, panel.Len())
	assert.Equal(t, map[string]float64{"AAPL": 150}, panel.Row(0))
	assert.Equal(t, map[string]float64{"AAPL": 151, "MSFT": 300}, panel.Row(1))

	msft, ok := panel.Column("MSFT")
	require.True(t, ok)
	assert.True(t, math.IsNaN(msft[0]))
}

func TestFetchPanel_NoBarsIsAnError(t *testing.T) {
	_, err := FetchPanel(&stubProvider{bars: map[string][]Bar{}}, []string{"AAPL"}, "", "")
	assert.Error(t, err)
}
