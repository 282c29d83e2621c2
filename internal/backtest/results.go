package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// TradingDaysPerYear is the annualization constant for daily data.
const TradingDaysPerYear = 252

// Snapshot is the end-of-day valuation record appended once per simulated
// day. The ordered snapshot sequence is the primary artifact consumed by the
// analytics below.
type Snapshot struct {
	Date           time.Time
	TotalValue     float64
	Cash           float64
	PositionsValue float64
}

// Results bundles the final ledger and the daily snapshot sequence of one
// completed run. All metrics are derived read-only views; Results itself is
// never mutated after the run produces it.
type Results struct {
	Portfolio   *Portfolio
	Snapshots   []Snapshot
	InitialCash float64
	Tickers     []string
	Panel       *Panel
}

// FinalValue is the total portfolio value on the last simulated day.
func (r *Results) FinalValue() float64 {
	if len(r.Snapshots) == 0 {
		return r.InitialCash
	}
	return r.Snapshots[len(r.Snapshots)-1].TotalValue
}

// TotalReturn is the overall return as a decimal.
func (r *Results) TotalReturn() float64 {
	return (r.FinalValue() - r.InitialCash) / r.InitialCash
}

// CAGR is the compound annual growth rate assuming 252 trading days per
// year. Zero when no days elapsed.
func (r *Results) CAGR() float64 {
	days := len(r.Snapshots)
	if days <= 0 {
		return 0
	}
	years := float64(days) / TradingDaysPerYear
	return math.Pow(r.FinalValue()/r.InitialCash, 1/years) - 1
}

// DailyReturns is the percentage change of the total-value series with the
// first observation dropped.
func (r *Results) DailyReturns() []float64 {
	if len(r.Snapshots) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(r.Snapshots)-1)
	for i := 1; i < len(r.Snapshots); i++ {
		prev := r.Snapshots[i-1].TotalValue
		returns = append(returns, (r.Snapshots[i].TotalValue-prev)/prev)
	}
	return returns
}

// Volatility is the annualized sample standard deviation of daily returns.
func (r *Results) Volatility() float64 {
	return sampleStdev(r.DailyReturns()) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio is CAGR over volatility at a 0% risk-free rate. Zero when
// volatility is zero.
func (r *Results) SharpeRatio() float64 {
	vol := r.Volatility()
	if vol == 0 {
		return 0
	}
	return r.CAGR() / vol
}

// MaxDrawdown is the deepest percentage decline from the running peak of the
// total-value series. Always <= 0.
func (r *Results) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := math.Inf(-1)
	for _, s := range r.Snapshots {
		if s.TotalValue > peak {
			peak = s.TotalValue
		}
		dd := (s.TotalValue - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// WinRate replays the trade log per instrument with a running cost basis.
// Each sell against a held position realizes PnL at the average cost and
// counts as one round trip; the rate is winning round trips over all round
// trips, zero when no sells occurred.
func (r *Results) WinRate() float64 {
	trades := r.Portfolio.Trades()
	if len(trades) == 0 {
		return 0
	}

	byTicker := make(map[string][]Trade)
	var order []string
	for _, t := range trades {
		if _, ok := byTicker[t.Ticker]; !ok {
			order = append(order, t.Ticker)
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	wins, total := 0, 0
	for _, ticker := range order {
		costBasis := 0.0
		quantity := 0
		for _, t := range byTicker[ticker] {
			if t.Side == Buy {
				costBasis += float64(t.Quantity) * t.Price
				quantity += t.Quantity
				continue
			}
			if quantity > 0 {
				avgCost := costBasis / float64(quantity)
				pnl := (t.Price - avgCost) * float64(t.Quantity)
				if pnl > 0 {
					wins++
				}
				total++
				costBasis -= avgCost * float64(t.Quantity)
				quantity -= t.Quantity
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// NumTrades is the total number of executed trades.
func (r *Results) NumTrades() int {
	return len(r.Portfolio.Trades())
}

// TotalCommission is the sum of commission over the trade log.
func (r *Results) TotalCommission() float64 {
	total := 0.0
	for _, t := range r.Portfolio.Trades() {
		total += t.Commission
	}
	return total
}

// Summary renders the headline metrics as a printable report.
func (r *Results) Summary() string {
	var b strings.Builder
	line := strings.Repeat("-", 48)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "BACKTEST RESULTS SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "  Initial Capital:    %16.2f\n", r.InitialCash)
	fmt.Fprintf(&b, "  Final Value:        %16.2f\n", r.FinalValue())
	fmt.Fprintf(&b, "  Total Return:       %15.2f%%\n", r.TotalReturn()*100)
	fmt.Fprintf(&b, "  CAGR:               %15.2f%%\n", r.CAGR()*100)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "  Volatility (Ann.):  %15.2f%%\n", r.Volatility()*100)
	fmt.Fprintf(&b, "  Sharpe Ratio:       %16.2f\n", r.SharpeRatio())
	fmt.Fprintf(&b, "  Max Drawdown:       %15.2f%%\n", r.MaxDrawdown()*100)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "  Total Trades:       %16d\n", r.NumTrades())
	fmt.Fprintf(&b, "  Win Rate:           %15.2f%%\n", r.WinRate()*100)
	fmt.Fprintf(&b, "  Total Commission:   %16.2f\n", r.TotalCommission())
	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}

// WriteSnapshotsCSV exports the daily snapshot table for downstream
// reporting: date, total value, cash, positions value.
func (r *Results) WriteSnapshotsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "total_value", "cash", "positions_value"}); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for _, s := range r.Snapshots {
		record := []string{
			s.Date.Format("2006-01-02"),
			strconv.FormatFloat(s.TotalValue, 'f', 2, 64),
			strconv.FormatFloat(s.Cash, 'f', 2, 64),
			strconv.FormatFloat(s.PositionsValue, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// sampleStdev is the n-1 standard deviation; zero for fewer than two values.
func sampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
