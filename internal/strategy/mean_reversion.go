package strategy

import (
	"math"

	"backtest-engine-go/internal/backtest"
)

// MeanReversion buys when the current price sits far below its rolling mean
// and sells the position once the z-score reverts past the exit threshold.
type MeanReversion struct {
	tickers      []string
	lookback     int
	entryZScore  float64
	exitZScore   float64
	positionSize float64
}

// NewMeanReversion creates a mean-reversion strategy. entryZScore is
// typically negative (e.g. -2), exitZScore the level at which to take
// profit (e.g. 0).
func NewMeanReversion(tickers []string, lookback int, entryZScore, exitZScore, positionSize float64) *MeanReversion {
	return &MeanReversion{
		tickers:      tickers,
		lookback:     lookback,
		entryZScore:  entryZScore,
		exitZScore:   exitZScore,
		positionSize: positionSize,
	}
}

func (s *MeanReversion) Name() string { return "mean_reversion" }

// Reset is a no-op: the z-score is recomputed from history every day.
func (s *MeanReversion) Reset() {}

func (s *MeanReversion) GenerateSignals(ctx backtest.Context) []backtest.Order {
	lookback := ctx.History.Lookback(ctx.Date, s.lookback+1)
	if lookback.Len() < s.lookback {
		return nil
	}

	var orders []backtest.Order
	for _, ticker := range s.tickers {
		values, ok := lookback.Column(ticker)
		if !ok {
			continue
		}
		price, havePrice := ctx.Prices[ticker]
		if !havePrice || price <= 0 {
			continue
		}

		mean, stdev := meanStdev(values)
		if stdev == 0 || math.IsNaN(stdev) {
			continue
		}
		zscore := (price - mean) / stdev

		position := ctx.Portfolio.Position(ticker)
		switch {
		case zscore <= s.entryZScore && position.Quantity == 0:
			quantity := int(ctx.Portfolio.Cash * s.positionSize / price)
			if quantity > 0 {
				orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
			}
		case zscore >= s.exitZScore && position.Quantity > 0:
			orders = append(orders, backtest.NewOrder(ticker, backtest.Sell, position.Quantity))
		}
	}
	return orders
}
