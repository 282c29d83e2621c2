package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"backtest-engine-go/internal/backtest"
)

// ReadPanelCSV reads a wide-format CSV into a price panel: a "date" column
// in YYYY-MM-DD followed by one close-price column per ticker. Empty cells
// mean no price for that day.
func ReadPanelCSV(r io.Reader) (*backtest.Panel, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 2 || header[0] != "date" {
		return nil, fmt.Errorf("csv header must start with a date column followed by tickers, got %v", header)
	}
	tickers := header[1:]

	var dates []time.Time
	series := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		series[ticker] = nil
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("malformed date %q: %w", record[0], err)
		}
		dates = append(dates, date)

		for i, ticker := range tickers {
			cell := record[i+1]
			if cell == "" {
				series[ticker] = append(series[ticker], math.NaN())
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed price %q for %s on %s: %w", cell, ticker, record[0], err)
			}
			series[ticker] = append(series[ticker], value)
		}
	}

	return backtest.NewPanel(dates, series)
}

// LoadPanelCSV reads a panel from a CSV file on disk.
func LoadPanelCSV(path string) (*backtest.Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open panel csv: %w", err)
	}
	defer f.Close()
	return ReadPanelCSV(f)
}
