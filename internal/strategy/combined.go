package strategy

import (
	"backtest-engine-go/internal/backtest"
)

// Combined polls a list of sub-strategies each step and emits an order only
// when enough of them agree on the direction for an instrument. Each
// sub-strategy is invoked exactly once per step, so stateful sub-strategies
// see every day exactly once.
type Combined struct {
	strategies []backtest.Strategy
	requireAll bool
	minAgree   int
}

// NewCombined creates a voting combinator. With requireAll set, every
// sub-strategy must agree; otherwise minAgree votes suffice.
func NewCombined(strategies []backtest.Strategy, requireAll bool, minAgree int) *Combined {
	return &Combined{strategies: strategies, requireAll: requireAll, minAgree: minAgree}
}

func (s *Combined) Name() string { return "combined" }

func (s *Combined) Reset() {
	for _, sub := range s.strategies {
		sub.Reset()
	}
}

func (s *Combined) GenerateSignals(ctx backtest.Context) []backtest.Order {
	type tally struct {
		buyVotes  int
		sellVotes int
		maxBuyQty int
	}

	votes := make(map[string]*tally)
	var tickerOrder []string

	for _, sub := range s.strategies {
		for _, order := range sub.GenerateSignals(ctx) {
			t, ok := votes[order.Ticker]
			if !ok {
				t = &tally{}
				votes[order.Ticker] = t
				tickerOrder = append(tickerOrder, order.Ticker)
			}
			if order.Side == backtest.Buy {
				t.buyVotes++
				if order.Quantity > t.maxBuyQty {
					t.maxBuyQty = order.Quantity
				}
			} else {
				t.sellVotes++
			}
		}
	}

	threshold := s.minAgree
	if s.requireAll {
		threshold = len(s.strategies)
	}

	var orders []backtest.Order
	for _, ticker := range tickerOrder {
		t := votes[ticker]
		switch {
		case t.buyVotes >= threshold:
			orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, t.maxBuyQty))
		case t.sellVotes >= threshold:
			position := ctx.Portfolio.Position(ticker)
			if position.Quantity > 0 {
				orders = append(orders, backtest.NewOrder(ticker, backtest.Sell, position.Quantity))
			}
		}
	}
	return orders
}
