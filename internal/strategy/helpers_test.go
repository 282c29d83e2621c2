package strategy

import (
	"testing"
	"time"

	"backtest-engine-go/internal/backtest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(n int) time.Time {
	return time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(i)
	}
	return out
}

// newTestEngine builds an engine over the given series with default
// settings, for use as the History handle in strategy tests.
func newTestEngine(t *testing.T, series map[string][]float64) *backtest.Engine {
	t.Helper()
	var n int
	for _, values := range series {
		n = len(values)
		break
	}
	panel, err := backtest.NewPanel(days(n), series)
	require.NoError(t, err)
	engine, err := backtest.NewEngine(panel, backtest.DefaultSettings(), zap.NewNop())
	require.NoError(t, err)
	return engine
}

// contextAt assembles the strategy context for row i of the engine's panel.
func contextAt(engine *backtest.Engine, i int, portfolio *backtest.Portfolio) backtest.Context {
	return backtest.Context{
		Date:      engine.Panel().Date(i),
		Prices:    engine.Panel().Row(i),
		Portfolio: portfolio,
		History:   engine,
		Logger:    zap.NewNop(),
	}
}
