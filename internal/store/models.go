package store

import (
	"time"

	"gorm.io/gorm"
)

// Run is the persisted summary of one completed backtest.
type Run struct {
	gorm.Model
	Name            string `gorm:"index"`
	Strategy        string
	InitialCash     float64
	FinalValue      float64
	TotalReturn     float64
	CAGR            float64
	Volatility      float64
	SharpeRatio     float64
	MaxDrawdown     float64
	WinRate         float64
	NumTrades       int
	TotalCommission float64

	Trades    []TradeRecord    `gorm:"constraint:OnDelete:CASCADE"`
	Snapshots []SnapshotRecord `gorm:"constraint:OnDelete:CASCADE"`
}

// TradeRecord is one executed trade belonging to a run.
type TradeRecord struct {
	gorm.Model
	RunID      uint `gorm:"index"`
	Ticker     string
	Side       string
	Quantity   int
	Price      float64
	Commission float64
	Timestamp  time.Time
}

// SnapshotRecord is one end-of-day valuation row belonging to a run.
type SnapshotRecord struct {
	gorm.Model
	RunID          uint `gorm:"index"`
	Date           time.Time
	TotalValue     float64
	Cash           float64
	PositionsValue float64
}
