package backtest

import (
	"time"

	"go.uber.org/zap"
)

// History gives strategies bounded access to past prices without exposing the
// engine itself.
type History interface {
	// Lookback returns the canonical panel's rows ending at date inclusive,
	// spanning up to periods prior rows. A date absent from the index snaps
	// to the nearest preceding row; a date before the first row yields an
	// empty panel.
	Lookback(date time.Time, periods int) *Panel
}

// Context carries everything a strategy may consult on one simulated day.
// Strategies read the portfolio through it but never mutate holdings
// directly; they only return orders.
type Context struct {
	Date      time.Time
	Prices    map[string]float64
	Portfolio *Portfolio
	History   History
	Logger    *zap.Logger
}

// Strategy is a trading decision rule. Implementations may keep private
// state across calls within one run; the engine calls Reset before each run
// so a shared instance starts fresh.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string

	// Reset clears any state carried across calls, preparing the instance
	// for a new run.
	Reset()

	// GenerateSignals produces zero or more orders for the current day.
	// Insufficient lookback data means an empty list, never an error.
	GenerateSignals(ctx Context) []Order
}
