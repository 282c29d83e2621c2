package strategy

import (
	"testing"

	"backtest-engine-go/internal/backtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageCrossover_BuysOnUpwardCrossAndLiquidatesOnDownward(t *testing.T) {
	// Flat, then a spike that lifts the 2-day mean above the 3-day mean on
	// day 4, then a collapse that crosses it back down on day 6.
	engine := newTestEngine(t, map[string][]float64{
		"AAPL": {10, 10, 10, 10, 20, 4, 4},
	})
	s := NewMovingAverageCrossover([]string{"AAPL"}, 2, 3, 0.5)

	results := engine.Run(s)

	trades := results.Portfolio.Trades()
	require.Len(t, trades, 2)

	assert.Equal(t, backtest.Buy, trades[0].Side)
	assert.Equal(t, day(4), trades[0].Timestamp)
	assert.Equal(t, 2500, trades[0].Quantity) // 50% of 100,000 at price 20
	assert.InDelta(t, 20, trades[0].Price, 1e-9)

	assert.Equal(t, backtest.Sell, trades[1].Side)
	assert.Equal(t, day(6), trades[1].Timestamp)
	assert.Equal(t, 2500, trades[1].Quantity)
}

func TestMovingAverageCrossover_NoSignalWithInsufficientHistory(t *testing.T) {
	engine := newTestEngine(t, map[string][]float64{"AAPL": {10, 20, 30}})
	portfolio := backtest.NewPortfolio(100000, 0.001)
	s := NewMovingAverageCrossover([]string{"AAPL"}, 5, 20, 0.2)

	assert.Empty(t, s.GenerateSignals(contextAt(engine, 2, portfolio)))
}

func TestMovingAverageCrossover_NoRebuyWhileHolding(t *testing.T) {
	engine := newTestEngine(t, map[string][]float64{
		"AAPL": {10, 10, 10, 10, 20},
	})
	portfolio := backtest.NewPortfolio(100000, 0)
	require.NotNil(t, portfolio.ExecuteOrder(backtest.NewOrder("AAPL", backtest.Buy, 10), 10))

	s := NewMovingAverageCrossover([]string{"AAPL"}, 2, 3, 0.5)

	// Upward cross on the last day, but a position is already open.
	assert.Empty(t, s.GenerateSignals(contextAt(engine, 4, portfolio)))
}
