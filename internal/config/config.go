package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Backtest   Backtest   `mapstructure:"backtest"`
	Strategy   Strategy   `mapstructure:"strategy"`
	MarketData MarketData `mapstructure:"marketdata"`
	Logger     Logger     `mapstructure:"logger"`
	Database   Database   `mapstructure:"database"`
}

// Backtest holds the simulation parameters.
type Backtest struct {
	InitialCash    float64 `mapstructure:"initial_cash"`
	CommissionRate float64 `mapstructure:"commission_rate"`
	StartDate      string  `mapstructure:"start_date"` // YYYY-MM-DD, empty = open
	EndDate        string  `mapstructure:"end_date"`   // YYYY-MM-DD, empty = open
	SnapshotCSV    string  `mapstructure:"snapshot_csv"`
}

// Strategy selects and parameterizes the trading strategy.
type Strategy struct {
	Type          string             `mapstructure:"type"`
	Tickers       []string           `mapstructure:"tickers"`
	Weights       map[string]float64 `mapstructure:"weights"`
	ShortWindow   int                `mapstructure:"short_window"`
	LongWindow    int                `mapstructure:"long_window"`
	PositionSize  float64            `mapstructure:"position_size"`
	Lookback      int                `mapstructure:"lookback"`
	EntryZScore   float64            `mapstructure:"entry_zscore"`
	ExitZScore    float64            `mapstructure:"exit_zscore"`
	TopN          int                `mapstructure:"top_n"`
	RebalanceDays int                `mapstructure:"rebalance_days"`
	Period        int                `mapstructure:"period"`
	Oversold      float64            `mapstructure:"oversold"`
	Overbought    float64            `mapstructure:"overbought"`
}

// MarketData selects the price-panel source for the CLI: a CSV file, an HTTP
// provider, or a generated sample panel when both are empty.
type MarketData struct {
	CSVFile        string  `mapstructure:"csv_file"`
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Database holds the configuration for the run archive. An empty DSN
// disables persistence.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("backtest.initial_cash", 100000.0)
	viper.SetDefault("backtest.commission_rate", 0.001)
	viper.SetDefault("strategy.type", "buy_and_hold")
	viper.SetDefault("strategy.short_window", 20)
	viper.SetDefault("strategy.long_window", 50)
	viper.SetDefault("strategy.position_size", 0.2)
	viper.SetDefault("strategy.lookback", 20)
	viper.SetDefault("strategy.entry_zscore", -2.0)
	viper.SetDefault("strategy.exit_zscore", 0.0)
	viper.SetDefault("strategy.top_n", 3)
	viper.SetDefault("strategy.rebalance_days", 20)
	viper.SetDefault("strategy.period", 14)
	viper.SetDefault("strategy.oversold", 30)
	viper.SetDefault("strategy.overbought", 70)
	viper.SetDefault("marketdata.rate_limit", 5) // requests per second
	viper.SetDefault("marketdata.rate_limit_burst", 2)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
