package marketdata

import (
	"math/rand"
	"time"

	"backtest-engine-go/internal/backtest"
)

// Base prices for well-known sample tickers; anything else starts at 100.
var sampleBasePrices = map[string]float64{
	"AAPL":  150,
	"MSFT":  300,
	"GOOGL": 2500,
	"AMZN":  3000,
	"META":  200,
}

// GenerateSamplePanel produces a deterministic synthetic panel for demos and
// tests: one row per business day, each ticker following a random walk with
// a slight upward drift.
func GenerateSamplePanel(tickers []string, start, end time.Time, seed int64) (*backtest.Panel, error) {
	rng := rand.New(rand.NewSource(seed))

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, d)
		}
	}

	series := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		base, ok := sampleBasePrices[ticker]
		if !ok {
			base = 100
		}
		prices := make([]float64, len(dates))
		price := base
		for i := range dates {
			price *= 1 + rng.NormFloat64()*0.02 + 0.0003
			prices[i] = price
		}
		series[ticker] = prices
	}

	return backtest.NewPanel(dates, series)
}
