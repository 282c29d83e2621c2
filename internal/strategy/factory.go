package strategy

import (
	"fmt"

	"backtest-engine-go/internal/backtest"
	"backtest-engine-go/internal/config"
)

// FromConfig builds a strategy from its configuration section. Momentum uses
// the lookback field for its window; the value and combined strategies need
// inputs (fundamentals, sub-strategies) that configuration cannot carry and
// are constructed in code instead.
func FromConfig(cfg config.Strategy) (backtest.Strategy, error) {
	if len(cfg.Tickers) == 0 {
		return nil, fmt.Errorf("strategy %q: no tickers configured", cfg.Type)
	}

	switch cfg.Type {
	case "buy_and_hold":
		return NewBuyAndHold(cfg.Tickers, cfg.Weights), nil
	case "moving_average_crossover":
		return NewMovingAverageCrossover(cfg.Tickers, cfg.ShortWindow, cfg.LongWindow, cfg.PositionSize), nil
	case "mean_reversion":
		return NewMeanReversion(cfg.Tickers, cfg.Lookback, cfg.EntryZScore, cfg.ExitZScore, cfg.PositionSize), nil
	case "momentum":
		return NewMomentum(cfg.Tickers, cfg.Lookback, cfg.TopN, cfg.RebalanceDays), nil
	case "rsi":
		return NewRSI(cfg.Tickers, cfg.Period, cfg.Oversold, cfg.Overbought, cfg.PositionSize), nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %s", cfg.Type)
	}
}
