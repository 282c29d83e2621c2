package backtest

import "math"

// Portfolio owns cash, per-instrument positions and the append-only trade
// log. It is the only component that mutates money or holdings, and it is
// exclusively owned by one engine run at a time.
type Portfolio struct {
	InitialCash    float64
	Cash           float64
	CommissionRate float64

	positions map[string]*Position
	trades    []Trade
}

// NewPortfolio creates a portfolio with the given starting cash and
// proportional commission rate (0.001 = 0.1% per trade).
func NewPortfolio(initialCash, commissionRate float64) *Portfolio {
	return &Portfolio{
		InitialCash:    initialCash,
		Cash:           initialCash,
		CommissionRate: commissionRate,
		positions:      make(map[string]*Position),
	}
}

// Position returns the position for ticker, creating an empty one on first
// reference.
func (p *Portfolio) Position(ticker string) *Position {
	pos, ok := p.positions[ticker]
	if !ok {
		pos = &Position{Ticker: ticker}
		p.positions[ticker] = pos
	}
	return pos
}

// Positions returns the live position map. Callers must not mutate it.
func (p *Portfolio) Positions() map[string]*Position {
	return p.positions
}

// Trades returns the chronological trade log.
func (p *Portfolio) Trades() []Trade {
	return p.trades
}

// ExecuteOrder fills an order at the current price, adjusting the requested
// quantity to what cash or holdings allow. It returns nil when no trade
// occurs: an unmet limit condition, a buy that cannot afford a single unit,
// or a sell with nothing held. Infeasible orders degrade to a smaller fill or
// to nothing; they never surface as errors.
func (p *Portfolio) ExecuteOrder(order Order, currentPrice float64) *Trade {
	if order.Type == Limit {
		if order.Side == Buy && currentPrice > order.LimitPrice {
			return nil
		}
		if order.Side == Sell && currentPrice < order.LimitPrice {
			return nil
		}
	}

	quantity := order.Quantity
	tradeValue := float64(quantity) * currentPrice
	commission := tradeValue * p.CommissionRate

	if order.Side == Buy {
		if tradeValue+commission > p.Cash {
			// Shrink to the largest affordable whole quantity.
			maxQuantity := int(math.Floor((p.Cash - commission) / currentPrice))
			if maxQuantity <= 0 {
				return nil
			}
			quantity = maxQuantity
			tradeValue = float64(quantity) * currentPrice
			commission = tradeValue * p.CommissionRate
		}
	}

	if order.Side == Sell {
		held := p.Position(order.Ticker).Quantity
		if quantity > held {
			quantity = held
		}
		if quantity <= 0 {
			return nil
		}
		tradeValue = float64(quantity) * currentPrice
		commission = tradeValue * p.CommissionRate
	}

	trade := Trade{
		Ticker:     order.Ticker,
		Side:       order.Side,
		Quantity:   quantity,
		Price:      currentPrice,
		Timestamp:  order.Timestamp,
		Commission: commission,
	}

	if order.Side == Buy {
		p.Cash -= trade.Value()
	} else {
		p.Cash += trade.Value()
	}

	p.Position(order.Ticker).apply(trade)
	p.trades = append(p.trades, trade)

	return &trade
}

// TotalValue is cash plus the market value of all open positions. Instruments
// without a price in the map are skipped, not valued at zero.
func (p *Portfolio) TotalValue(prices map[string]float64) float64 {
	return p.Cash + p.PositionsValue(prices)
}

// PositionsValue is the market value of open positions, excluding cash.
func (p *Portfolio) PositionsValue(prices map[string]float64) float64 {
	total := 0.0
	for ticker, pos := range p.positions {
		if price, ok := prices[ticker]; ok && pos.Quantity > 0 {
			total += float64(pos.Quantity) * price
		}
	}
	return total
}
