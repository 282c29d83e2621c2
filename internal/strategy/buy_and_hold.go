package strategy

import (
	"backtest-engine-go/internal/backtest"
)

// BuyAndHold allocates the starting cash across the configured instruments
// on the first invocation and never trades again.
type BuyAndHold struct {
	tickers []string
	weights map[string]float64
	bought  bool
}

// NewBuyAndHold creates a buy-and-hold strategy. A nil weights map means
// equal weighting across the tickers.
func NewBuyAndHold(tickers []string, weights map[string]float64) *BuyAndHold {
	if weights == nil {
		weights = make(map[string]float64, len(tickers))
		for _, t := range tickers {
			weights[t] = 1 / float64(len(tickers))
		}
	}
	return &BuyAndHold{tickers: tickers, weights: weights}
}

func (s *BuyAndHold) Name() string { return "buy_and_hold" }

func (s *BuyAndHold) Reset() { s.bought = false }

func (s *BuyAndHold) GenerateSignals(ctx backtest.Context) []backtest.Order {
	if s.bought {
		return nil
	}

	var orders []backtest.Order
	totalCash := ctx.Portfolio.Cash

	for _, ticker := range s.tickers {
		price, ok := ctx.Prices[ticker]
		if !ok || price <= 0 {
			continue
		}
		weight, ok := s.weights[ticker]
		if !ok {
			weight = 1 / float64(len(s.tickers))
		}
		quantity := int(totalCash * weight / price)
		if quantity > 0 {
			orders = append(orders, backtest.NewOrder(ticker, backtest.Buy, quantity))
		}
	}

	s.bought = true
	return orders
}
