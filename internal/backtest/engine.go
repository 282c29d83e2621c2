package backtest

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default simulation parameters, matching the configuration defaults.
const (
	DefaultInitialCash    = 100000.0
	DefaultCommissionRate = 0.001
)

// Settings configures one engine instance. Nil date bounds leave that side of
// the range open.
type Settings struct {
	InitialCash    float64
	CommissionRate float64
	StartDate      *time.Time
	EndDate        *time.Time
}

// DefaultSettings returns the standard configuration: 100,000 starting cash
// and a 0.1% commission rate over the full panel.
func DefaultSettings() Settings {
	return Settings{
		InitialCash:    DefaultInitialCash,
		CommissionRate: DefaultCommissionRate,
	}
}

// Engine replays a price panel through a strategy one trading day at a time.
// A single engine run is strictly sequential and owns its portfolio
// exclusively; parallel parameter sweeps need one engine and one strategy
// instance each.
type Engine struct {
	panel    *Panel
	settings Settings
	logger   *zap.Logger
}

// NewEngine validates the configuration and derives the canonical panel for
// the requested date range. Configuration problems are the only errors the
// engine ever surfaces; everything inside a run degrades to no-op instead.
func NewEngine(panel *Panel, settings Settings, logger *zap.Logger) (*Engine, error) {
	if panel == nil || panel.Len() == 0 {
		return nil, fmt.Errorf("engine: empty price panel")
	}
	if len(panel.Tickers()) == 0 {
		return nil, fmt.Errorf("engine: empty instrument universe")
	}
	if settings.InitialCash <= 0 {
		return nil, fmt.Errorf("engine: initial cash must be positive, got %.2f", settings.InitialCash)
	}
	if settings.CommissionRate < 0 {
		return nil, fmt.Errorf("engine: commission rate must not be negative, got %f", settings.CommissionRate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	canonical := panel.Between(settings.StartDate, settings.EndDate)
	if canonical.Len() == 0 {
		return nil, fmt.Errorf("engine: no rows within the configured date range")
	}

	return &Engine{panel: canonical, settings: settings, logger: logger}, nil
}

// Panel returns the canonical panel consulted during simulation.
func (e *Engine) Panel() *Panel {
	return e.panel
}

// Run simulates the strategy over the full date range and returns the
// results. The strategy is reset first, so a shared instance can be reused
// across runs.
func (e *Engine) Run(strategy Strategy) *Results {
	strategy.Reset()

	portfolio := NewPortfolio(e.settings.InitialCash, e.settings.CommissionRate)
	snapshots := make([]Snapshot, 0, e.panel.Len())

	for i := 0; i < e.panel.Len(); i++ {
		date := e.panel.Date(i)
		prices := e.panel.Row(i)

		orders := strategy.GenerateSignals(Context{
			Date:      date,
			Prices:    prices,
			Portfolio: portfolio,
			History:   e,
			Logger:    e.logger,
		})

		// Orders execute strictly in the returned list order: the first
		// order has first claim on the cash pool.
		for _, order := range orders {
			price, ok := prices[order.Ticker]
			if !ok {
				e.logger.Debug("Dropping order without a price for the day",
					zap.String("ticker", order.Ticker),
					zap.Time("date", date))
				continue
			}
			if order.Timestamp.IsZero() {
				order.Timestamp = date
			}
			if trade := portfolio.ExecuteOrder(order, price); trade != nil {
				e.logger.Info("Executed trade",
					zap.Time("date", date),
					zap.String("ticker", trade.Ticker),
					zap.String("side", string(trade.Side)),
					zap.Int("quantity", trade.Quantity),
					zap.Float64("price", trade.Price),
					zap.Float64("commission", trade.Commission))
			}
		}

		snapshots = append(snapshots, Snapshot{
			Date:           date,
			TotalValue:     portfolio.TotalValue(prices),
			Cash:           portfolio.Cash,
			PositionsValue: portfolio.PositionsValue(prices),
		})
	}

	return &Results{
		Portfolio:   portfolio,
		Snapshots:   snapshots,
		InitialCash: e.settings.InitialCash,
		Tickers:     e.panel.Tickers(),
		Panel:       e.panel,
	}
}

// Lookback implements History over the canonical panel. A requested date
// missing from the index snaps to the nearest preceding row rather than
// falling back to the start of the panel; a date before the first row yields
// an empty panel.
func (e *Engine) Lookback(date time.Time, periods int) *Panel {
	idx := e.panel.searchDate(date)
	if idx < 0 {
		return e.panel.slice(0, 0)
	}
	start := idx - periods
	if start < 0 {
		start = 0
	}
	return e.panel.slice(start, idx+1)
}
