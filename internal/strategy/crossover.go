package strategy

import (
	"math"

	"backtest-engine-go/internal/backtest"
)

// MovingAverageCrossover buys when the short rolling mean crosses above the
// long one and liquidates on the downward cross.
type MovingAverageCrossover struct {
	tickers      []string
	shortWindow  int
	longWindow   int
	positionSize float64
}

// NewMovingAverageCrossover creates a crossover strategy. positionSize is
// the fraction of current cash committed per entry.
func NewMovingAverageCrossover(tickers []string, shortWindow, longWindow int, positionSize float64) *MovingAverageCrossover {
	return &MovingAverageCrossover{
		tickers:      tickers,
		shortWindow:  shortWindow,
		longWindow:   longWindow,
		positionSize: positionSize,
	}
}

func (s *MovingAverageCrossover) Name() string { return "moving_average_crossover" }

// Reset is a no-op: the crossover is recomputed from history every day.
func (s *MovingAverageCrossover) Reset() {}

func (s *MovingAverageCrossover) GenerateSignals(ctx backtest.Context) []backtest.Order {
	lookback := ctx.History.Lookback(ctx.Date, s.longWindow+1)
	if lookback.Len() < s.longWindow {
		return nil
	}

	var orders []backtest.Order
	for _, ticker := range s.tickers {
		values, ok := lookback.Column(ticker)
		if !ok {
			continue
		}
		last := len(values) - 1

		shortMA := rollingMeanAt(values, s.shortWindow, last)
		longMA := rollingMeanAt(values, s.longWindow, last)
		if math.IsNaN(shortMA) || math.IsNaN(longMA) {
			continue
		}
		// NaN comparisons are false, so a missing previous window reads as
		// "no prior signal".
		prevShortMA := rollingMeanAt(values, s.shortWindow, last-1)
		prevLongMA := rollingMeanAt(values, s.longWindow, last-1)

		currentSignal := shortMA > longMA
		prevSignal := prevShortMA > prevLongMA

		position := ctx.Portfolio.Position(ticker)
		price, havePrice := ctx.Prices[ticker]

		switch {
		case currentSignal && !prevSignal:
			if position.Quantity == 0 && havePrice && price > 0 {
				quantity := int(ctx.Portfolio.Cash * s.positionSize / price)
				if quantity > 0 {
					orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
				}
			}
		case !currentSignal && prevSignal:
			if position.Quantity > 0 {
				orders = append(orders, backtest.NewOrder(ticker, backtest.Sell, position.Quantity))
			}
		}
	}
	return orders
}
