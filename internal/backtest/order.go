package backtest

import "time"

// Side is the direction of an order or trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// OrderType distinguishes market orders from limit orders.
type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
)

// Order is a requested action produced by a strategy. It is consumed once by
// the portfolio; only the resulting Trade persists.
type Order struct {
	Ticker     string
	Side       Side
	Quantity   int
	Type       OrderType
	LimitPrice float64
	Timestamp  time.Time
}

// NewOrder creates a market order.
func NewOrder(ticker string, side Side, quantity int) Order {
	return Order{
		Ticker:   ticker,
		Side:     side,
		Quantity: quantity,
		Type:     Market,
	}
}

// NewLimitOrder creates a limit order at the given price.
func NewLimitOrder(ticker string, side Side, quantity int, limitPrice float64) Order {
	return Order{
		Ticker:     ticker,
		Side:       side,
		Quantity:   quantity,
		Type:       Limit,
		LimitPrice: limitPrice,
	}
}

// Trade is an executed order. Immutable once created and appended to the
// portfolio's trade log.
type Trade struct {
	Ticker     string
	Side       Side
	Quantity   int
	Price      float64
	Timestamp  time.Time
	Commission float64
}

// Value is the cash impact of the trade: buys add the commission to the cost,
// sells subtract it from the proceeds.
func (t Trade) Value() float64 {
	base := float64(t.Quantity) * t.Price
	if t.Side == Buy {
		return base + t.Commission
	}
	return base - t.Commission
}
