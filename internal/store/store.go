package store

import (
	"fmt"

	"backtest-engine-go/internal/backtest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the run archive and migrates its schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Run{}, &TradeRecord{}, &SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}

// SaveResults persists a completed run, its trade log and its daily
// snapshots, and returns the stored run row.
func SaveResults(db *gorm.DB, name, strategyName string, results *backtest.Results) (*Run, error) {
	run := Run{
		Name:            name,
		Strategy:        strategyName,
		InitialCash:     results.InitialCash,
		FinalValue:      results.FinalValue(),
		TotalReturn:     results.TotalReturn(),
		CAGR:            results.CAGR(),
		Volatility:      results.Volatility(),
		SharpeRatio:     results.SharpeRatio(),
		MaxDrawdown:     results.MaxDrawdown(),
		WinRate:         results.WinRate(),
		NumTrades:       results.NumTrades(),
		TotalCommission: results.TotalCommission(),
	}

	for _, t := range results.Portfolio.Trades() {
		run.Trades = append(run.Trades, TradeRecord{
			Ticker:     t.Ticker,
			Side:       string(t.Side),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			Timestamp:  t.Timestamp,
		})
	}
	for _, s := range results.Snapshots {
		run.Snapshots = append(run.Snapshots, SnapshotRecord{
			Date:           s.Date,
			TotalValue:     s.TotalValue,
			Cash:           s.Cash,
			PositionsValue: s.PositionsValue,
		})
	}

	if err := db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to save run %q: %w", name, err)
	}
	return &run, nil
}
