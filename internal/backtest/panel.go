package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Field names recognised by NewPanelFromFields.
const (
	FieldClose    = "close"
	FieldAdjClose = "adj_close"
)

// Panel is an immutable time series of per-instrument reference prices with
// an ascending date index. A NaN cell means the instrument has no price on
// that date; such cells are omitted from the day's price map.
type Panel struct {
	dates   []time.Time
	tickers []string
	series  map[string][]float64
}

// NewPanel builds a panel from flat per-instrument close-price series. Every
// series must have one value per date. Rows are sorted into ascending date
// order; tickers are kept in sorted order for deterministic iteration.
func NewPanel(dates []time.Time, series map[string][]float64) (*Panel, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("panel: no dates")
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("panel: no instruments")
	}

	tickers := make([]string, 0, len(series))
	for ticker, values := range series {
		if len(values) != len(dates) {
			return nil, fmt.Errorf("panel: series %q has %d values for %d dates", ticker, len(values), len(dates))
		}
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dates[order[a]].Before(dates[order[b]])
	})

	sortedDates := make([]time.Time, len(dates))
	sortedSeries := make(map[string][]float64, len(series))
	for i, src := range order {
		sortedDates[i] = dates[src]
	}
	for ticker, values := range series {
		sorted := make([]float64, len(values))
		for i, src := range order {
			sorted[i] = values[src]
		}
		sortedSeries[ticker] = sorted
	}

	return &Panel{dates: sortedDates, tickers: tickers, series: sortedSeries}, nil
}

// NewPanelFromFields builds a panel from a nested per-instrument schema where
// each instrument carries named field series. The close field is preferred;
// adjusted close is the fallback. Instruments with neither field are dropped.
func NewPanelFromFields(dates []time.Time, fields map[string]map[string][]float64) (*Panel, error) {
	series := make(map[string][]float64, len(fields))
	for ticker, columns := range fields {
		if values, ok := columns[FieldClose]; ok {
			series[ticker] = values
		} else if values, ok := columns[FieldAdjClose]; ok {
			series[ticker] = values
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("panel: no close or adjusted close series found")
	}
	return NewPanel(dates, series)
}

// Len returns the number of rows.
func (p *Panel) Len() int {
	return len(p.dates)
}

// Dates returns the ascending date index. Callers must not mutate it.
func (p *Panel) Dates() []time.Time {
	return p.dates
}

// Tickers returns the instrument universe in sorted order.
func (p *Panel) Tickers() []string {
	return p.tickers
}

// Date returns the date of row i.
func (p *Panel) Date(i int) time.Time {
	return p.dates[i]
}

// Row returns the instrument→price map for row i. Instruments with a NaN
// cell are absent from the map.
func (p *Panel) Row(i int) map[string]float64 {
	prices := make(map[string]float64, len(p.tickers))
	for _, ticker := range p.tickers {
		v := p.series[ticker][i]
		if !math.IsNaN(v) {
			prices[ticker] = v
		}
	}
	return prices
}

// Column returns the full price series for ticker.
func (p *Panel) Column(ticker string) ([]float64, bool) {
	values, ok := p.series[ticker]
	return values, ok
}

// slice returns the half-open row range [i, j) as a panel sharing the
// underlying storage.
func (p *Panel) slice(i, j int) *Panel {
	series := make(map[string][]float64, len(p.series))
	for ticker, values := range p.series {
		series[ticker] = values[i:j]
	}
	return &Panel{dates: p.dates[i:j], tickers: p.tickers, series: series}
}

// Between returns the rows within the inclusive [start, end] bounds. A nil
// bound leaves that side open.
func (p *Panel) Between(start, end *time.Time) *Panel {
	lo := 0
	hi := len(p.dates)
	if start != nil {
		lo = sort.Search(len(p.dates), func(i int) bool {
			return !p.dates[i].Before(*start)
		})
	}
	if end != nil {
		hi = sort.Search(len(p.dates), func(i int) bool {
			return p.dates[i].After(*end)
		})
	}
	if lo > hi {
		lo = hi
	}
	return p.slice(lo, hi)
}

// searchDate returns the index of the latest row on or before date, or -1 if
// date precedes the first row.
func (p *Panel) searchDate(date time.Time) int {
	return sort.Search(len(p.dates), func(i int) bool {
		return p.dates[i].After(date)
	}) - 1
}
