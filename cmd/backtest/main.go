package main

import (
	"fmt"
	"os"
	"time"

	"backtest-engine-go/internal/backtest"
	"backtest-engine-go/internal/config"
	"backtest-engine-go/internal/logger"
	"backtest-engine-go/internal/marketdata"
	"backtest-engine-go/internal/store"
	"backtest-engine-go/internal/strategy"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	panel, err := loadPanel(&cfg, log)
	if err != nil {
		log.Fatal("Failed to materialize price panel", zap.Error(err))
	}
	log.Info("Price panel ready",
		zap.Int("rows", panel.Len()),
		zap.Strings("tickers", panel.Tickers()))

	strat, err := strategy.FromConfig(cfg.Strategy)
	if err != nil {
		log.Fatal("Failed to build strategy", zap.Error(err))
	}

	settings, err := settingsFromConfig(cfg.Backtest)
	if err != nil {
		log.Fatal("Invalid backtest settings", zap.Error(err))
	}

	engine, err := backtest.NewEngine(panel, settings, log)
	if err != nil {
		log.Fatal("Failed to construct engine", zap.Error(err))
	}

	log.Info("Running backtest", zap.String("strategy", strat.Name()))
	results := engine.Run(strat)
	fmt.Print(results.Summary())

	if cfg.Backtest.SnapshotCSV != "" {
		if err := writeSnapshotCSV(cfg.Backtest.SnapshotCSV, results); err != nil {
			log.Error("Failed to write snapshot CSV", zap.Error(err))
		} else {
			log.Info("Wrote snapshot CSV", zap.String("path", cfg.Backtest.SnapshotCSV))
		}
	}

	if cfg.Database.DSN != "" {
		db, err := store.NewDatabase(cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to open run archive", zap.Error(err))
		}
		runName := fmt.Sprintf("%s-%s", strat.Name(), time.Now().Format("20060102-150405"))
		run, err := store.SaveResults(db, runName, strat.Name(), results)
		if err != nil {
			log.Fatal("Failed to persist run", zap.Error(err))
		}
		log.Info("Persisted run", zap.Uint("run_id", run.ID), zap.String("name", run.Name))
	}
}

// loadPanel materializes the price panel from the configured source: a CSV
// file, the HTTP provider, or a synthetic sample when neither is configured.
func loadPanel(cfg *config.Config, log *zap.Logger) (*backtest.Panel, error) {
	md := cfg.MarketData
	switch {
	case md.CSVFile != "":
		log.Info("Loading panel from CSV", zap.String("path", md.CSVFile))
		return marketdata.LoadPanelCSV(md.CSVFile)
	case md.BaseURL != "":
		log.Info("Fetching panel from provider", zap.String("base_url", md.BaseURL))
		client := marketdata.NewClient(&md, log)
		return marketdata.FetchPanel(client, cfg.Strategy.Tickers, cfg.Backtest.StartDate, cfg.Backtest.EndDate)
	default:
		log.Warn("No market data source configured, generating a sample panel")
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC)
		return marketdata.GenerateSamplePanel(cfg.Strategy.Tickers, start, end, 42)
	}
}

// settingsFromConfig translates the configuration section into engine
// settings, parsing the optional inclusive date bounds.
func settingsFromConfig(cfg config.Backtest) (backtest.Settings, error) {
	settings := backtest.Settings{
		InitialCash:    cfg.InitialCash,
		CommissionRate: cfg.CommissionRate,
	}
	if cfg.StartDate != "" {
		start, err := time.Parse("2006-01-02", cfg.StartDate)
		if err != nil {
			return settings, fmt.Errorf("malformed start_date %q: %w", cfg.StartDate, err)
		}
		settings.StartDate = &start
	}
	if cfg.EndDate != "" {
		end, err := time.Parse("2006-01-02", cfg.EndDate)
		if err != nil {
			return settings, fmt.Errorf("malformed end_date %q: %w", cfg.EndDate, err)
		}
		settings.EndDate = &end
	}
	return settings, nil
}

func writeSnapshotCSV(path string, results *backtest.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot csv: %w", err)
	}
	defer f.Close()
	return results.WriteSnapshotsCSV(f)
}
