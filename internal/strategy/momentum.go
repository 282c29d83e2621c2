package strategy

import (
	"math"
	"sort"

	"backtest-engine-go/internal/backtest"
	"go.uber.org/zap"
)

// Momentum rebalances on a fixed schedule into the instruments with the
// highest return over the lookback window, liquidating anything that drops
// out of the top set.
type Momentum struct {
	tickers       []string
	lookback      int
	topN          int
	rebalanceDays int

	daysSinceRebalance int
	holdings           map[string]bool
}

// NewMomentum creates a momentum strategy holding the topN performers,
// rebalancing every rebalanceDays calls.
func NewMomentum(tickers []string, lookback, topN, rebalanceDays int) *Momentum {
	return &Momentum{
		tickers:       tickers,
		lookback:      lookback,
		topN:          topN,
		rebalanceDays: rebalanceDays,
		holdings:      make(map[string]bool),
	}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) Reset() {
	s.daysSinceRebalance = 0
	s.holdings = make(map[string]bool)
}

func (s *Momentum) GenerateSignals(ctx backtest.Context) []backtest.Order {
	s.daysSinceRebalance++
	if s.daysSinceRebalance < s.rebalanceDays {
		return nil
	}
	s.daysSinceRebalance = 0

	lookback := ctx.History.Lookback(ctx.Date, s.lookback+1)
	if lookback.Len() < s.lookback {
		return nil
	}

	// Percentage return over the window, in configured ticker order so that
	// the stable sort breaks ties deterministically.
	type ranked struct {
		ticker string
		ret    float64
	}
	var candidates []ranked
	for _, ticker := range s.tickers {
		values, ok := lookback.Column(ticker)
		if !ok {
			continue
		}
		start := values[0]
		end := values[len(values)-1]
		if start <= 0 || math.IsNaN(start) || math.IsNaN(end) {
			continue
		}
		candidates = append(candidates, ranked{ticker: ticker, ret: (end - start) / start})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].ret > candidates[b].ret
	})

	top := make(map[string]bool, s.topN)
	var topOrder []string
	for i := 0; i < len(candidates) && i < s.topN; i++ {
		top[candidates[i].ticker] = true
		topOrder = append(topOrder, candidates[i].ticker)
	}
	ctx.Logger.Debug("Rebalancing into top performers",
		zap.Time("date", ctx.Date),
		zap.Strings("tickers", topOrder))

	var orders []backtest.Order

	// Liquidate instruments dropped from the top set first, so the freed
	// cash is visible to the valuation of the day.
	for _, ticker := range s.tickers {
		if s.holdings[ticker] && !top[ticker] {
			position := ctx.Portfolio.Position(ticker)
			if position.Quantity > 0 {
				orders = append(orders, backtest.NewOrder(ticker, backtest.Sell, position.Quantity))
			}
		}
	}

	// Enter new names with an equal cash split across the top slots.
	for _, ticker := range topOrder {
		if s.holdings[ticker] {
			continue
		}
		price, ok := ctx.Prices[ticker]
		if !ok || price <= 0 {
			continue
		}
		amount := ctx.Portfolio.Cash / float64(s.topN)
		quantity := int(amount / price)
		if quantity > 0 {
			orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
		}
	}

	s.holdings = top
	return orders
}

// Holdings reports the instruments selected at the last rebalance.
func (s *Momentum) Holdings() []string {
	var out []string
	for _, ticker := range s.tickers {
		if s.holdings[ticker] {
			out = append(out, ticker)
		}
	}
	return out
}
