package strategy

import (
	"math"

	"backtest-engine-go/internal/backtest"
)

// RSI buys when the relative strength index falls to the oversold level and
// sells the position once it reaches the overbought level.
type RSI struct {
	tickers      []string
	period       int
	oversold     float64
	overbought   float64
	positionSize float64
}

// NewRSI creates an RSI strategy with the given period and thresholds
// (conventionally 14, 30 and 70).
func NewRSI(tickers []string, period int, oversold, overbought, positionSize float64) *RSI {
	return &RSI{
		tickers:      tickers,
		period:       period,
		oversold:     oversold,
		overbought:   overbought,
		positionSize: positionSize,
	}
}

func (s *RSI) Name() string { return "rsi" }

// Reset is a no-op: the index is recomputed from history every day.
func (s *RSI) Reset() {}

func (s *RSI) GenerateSignals(ctx backtest.Context) []backtest.Order {
	// A few rows beyond the period so the delta window never touches the
	// panel edge.
	lookback := ctx.History.Lookback(ctx.Date, s.period+5)
	if lookback.Len() < s.period+1 {
		return nil
	}

	var orders []backtest.Order
	for _, ticker := range s.tickers {
		values, ok := lookback.Column(ticker)
		if !ok {
			continue
		}
		rsi := relativeStrengthIndex(values, s.period)
		if math.IsNaN(rsi) {
			continue
		}

		position := ctx.Portfolio.Position(ticker)
		price, havePrice := ctx.Prices[ticker]

		switch {
		case rsi <= s.oversold && position.Quantity == 0:
			if havePrice && price > 0 {
				quantity := int(ctx.Portfolio.Cash * s.positionSize / price)
				if quantity > 0 {
					orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
				}
			}
		case rsi >= s.overbought && position.Quantity > 0:
			orders = append(orders, backtest.NewOrder(ticker, backtest.Sell, position.Quantity))
		}
	}
	return orders
}
