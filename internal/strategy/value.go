package strategy

import (
	"sort"

	"backtest-engine-go/internal/backtest"
)

// Fundamentals are externally supplied valuation and quality metrics for one
// instrument. The engine performs no lookup itself; callers materialize the
// data before the run.
type Fundamentals struct {
	PERatio        float64
	PiotroskiScore float64
}

// Value buys, once at the start, equal-sized positions in every instrument
// whose P/E is at or below the maximum and whose Piotroski F-Score is at or
// above the minimum.
type Value struct {
	fundamentals map[string]Fundamentals
	maxPE        float64
	minPiotroski float64
	positionSize float64
	bought       bool
}

// NewValue creates a value strategy over the given fundamentals.
func NewValue(fundamentals map[string]Fundamentals, maxPE, minPiotroski, positionSize float64) *Value {
	return &Value{
		fundamentals: fundamentals,
		maxPE:        maxPE,
		minPiotroski: minPiotroski,
		positionSize: positionSize,
	}
}

func (s *Value) Name() string { return "value" }

func (s *Value) Reset() { s.bought = false }

func (s *Value) GenerateSignals(ctx backtest.Context) []backtest.Order {
	if s.bought {
		return nil
	}

	tickers := make([]string, 0, len(s.fundamentals))
	for ticker := range s.fundamentals {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var orders []backtest.Order
	for _, ticker := range tickers {
		f := s.fundamentals[ticker]
		if f.PERatio > s.maxPE || f.PiotroskiScore < s.minPiotroski {
			continue
		}
		price, ok := ctx.Prices[ticker]
		if !ok || price <= 0 {
			continue
		}
		quantity := int(ctx.Portfolio.Cash * s.positionSize / price)
		if quantity > 0 {
			orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
		}
	}

	s.bought = true
	return orders
}
