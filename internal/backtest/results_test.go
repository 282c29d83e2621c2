package backtest

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsWithValues(values ...float64) *Results {
	snapshots := make([]Snapshot, len(values))
	for i, v := range values {
		snapshots[i] = Snapshot{Date: day(i), TotalValue: v, Cash: v}
	}
	return &Results{
		Portfolio:   NewPortfolio(100000, 0.001),
		Snapshots:   snapshots,
		InitialCash: 100000,
	}
}

func TestResults_TotalReturnAndCAGR(t *testing.T) {
	r := resultsWithValues(100000, 100500, 100969)

	assert.InDelta(t, 0.00969, r.TotalReturn(), 1e-9)

	years := 3.0 / TradingDaysPerYear
	expected := math.Pow(100969.0/100000.0, 1/years) - 1
	assert.InDelta(t, expected, r.CAGR(), 1e-9)
}

func TestResults_EmptyRunDegradesToZero(t *testing.T) {
	r := resultsWithValues()

	assert.Zero(t, r.TotalReturn())
	assert.Zero(t, r.CAGR())
	assert.Zero(t, r.Volatility())
	assert.Zero(t, r.SharpeRatio())
	assert.Zero(t, r.MaxDrawdown())
	assert.Zero(t, r.WinRate())
	assert.Empty(t, r.DailyReturns())
}

func TestResults_DailyReturnsDropFirstObservation(t *testing.T) {
	r := resultsWithValues(100000, 110000, 99000)

	returns := r.DailyReturns()
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestResults_VolatilityAndSharpe(t *testing.T) {
	r := resultsWithValues(100000, 101000, 102010)

	// Both daily returns are exactly 1%, so the sample stdev is zero and
	// Sharpe degrades to zero rather than dividing.
	assert.Zero(t, r.Volatility())
	assert.Zero(t, r.SharpeRatio())

	r = resultsWithValues(100000, 102000, 102000)
	expectedVol := sampleStdev([]float64{0.02, 0}) * math.Sqrt(TradingDaysPerYear)
	assert.InDelta(t, expectedVol, r.Volatility(), 1e-12)
	assert.InDelta(t, r.CAGR()/expectedVol, r.SharpeRatio(), 1e-12)
}

func TestResults_MaxDrawdown(t *testing.T) {
	r := resultsWithValues(100000, 110000, 90000, 95000)

	assert.InDelta(t, (90000.0-110000.0)/110000.0, r.MaxDrawdown(), 1e-9)
	assert.LessOrEqual(t, r.MaxDrawdown(), 0.0)

	// A monotonically rising series never draws down.
	assert.Zero(t, resultsWithValues(100, 110, 120).MaxDrawdown())
}

func TestResults_WinRateReplaysCostBasis(t *testing.T) {
	p := NewPortfolio(1000000, 0)
	r := &Results{Portfolio: p, InitialCash: 1000000}

	// AAPL: buy 100@100, buy 100@200 (avg 150), then a winning partial
	// sell and a losing final sell.
	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Buy, 100), 100))
	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Buy, 100), 200))
	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Sell, 50), 180))  // +30/unit, win
	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Sell, 150), 120)) // -30/unit, loss

	// MSFT: straightforward winning round trip.
	require.NotNil(t, p.ExecuteOrder(NewOrder("MSFT", Buy, 10), 300))
	require.NotNil(t, p.ExecuteOrder(NewOrder("MSFT", Sell, 10), 330))

	assert.InDelta(t, 2.0/3.0, r.WinRate(), 1e-9)
}

func TestResults_TotalCommissionAndTradeCount(t *testing.T) {
	p := NewPortfolio(100000, 0.001)
	r := &Results{Portfolio: p, InitialCash: 100000}

	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Buy, 100), 150))
	require.NotNil(t, p.ExecuteOrder(NewOrder("AAPL", Sell, 100), 160))

	assert.Equal(t, 2, r.NumTrades())
	assert.InDelta(t, 31, r.TotalCommission(), 1e-9)
}

func TestResults_Summary(t *testing.T) {
	r := resultsWithValues(100000, 100969)

	summary := r.Summary()
	assert.Contains(t, summary, "BACKTEST RESULTS SUMMARY")
	assert.Contains(t, summary, "100969.00")
	assert.Contains(t, summary, "0.97%")
}

func TestResults_WriteSnapshotsCSV(t *testing.T) {
	r := resultsWithValues(100000, 100500)
	r.Snapshots[1].Cash = 500
	r.Snapshots[1].PositionsValue = 100000

	var buf bytes.Buffer
	require.NoError(t, r.WriteSnapshotsCSV(&buf))

	want := "date,total_value,cash,positions_value\n" +
		"2023-01-02,100000.00,100000.00,0.00\n" +
		"2023-01-03,100500.00,500.00,100000.00\n"
	assert.Equal(t, want, buf.String())
}
