package backtest

// Position tracks holdings in a single instrument. Quantity never goes
// negative: sells are clamped to the held quantity before they reach the
// position.
type Position struct {
	Ticker   string
	Quantity int
	AvgCost  float64
}

// apply updates the position for an executed trade. Buys fold the trade into
// the weighted average cost; a sell that empties the position resets the
// average cost to zero.
func (p *Position) apply(t Trade) {
	if t.Side == Buy {
		totalCost := float64(p.Quantity)*p.AvgCost + float64(t.Quantity)*t.Price
		p.Quantity += t.Quantity
		if p.Quantity > 0 {
			p.AvgCost = totalCost / float64(p.Quantity)
		}
		return
	}

	p.Quantity -= t.Quantity
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.AvgCost = 0
	}
}
