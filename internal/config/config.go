package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/papertrade/internal/marketdata"
	"github.com/rxtech-lab/papertrade/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when the file omits a field.
const (
	DefaultPortfolioID    = "default"
	DefaultInitialBalance = 10000.0
	DefaultDatabasePath   = "papertrade.db"
	DefaultHistoryDays    = 30
	DefaultSizingPercent  = 10.0
)

// Config is the full runtime configuration.
type Config struct {
	PortfolioID    string  `yaml:"portfolio_id" validate:"required"`
	InitialBalance float64 `yaml:"initial_balance" validate:"required,gt=0"`
	DatabasePath   string  `yaml:"database_path" validate:"required"`
	// Symbols watched by the snapshot and execute commands.
	Symbols     []string `yaml:"symbols" validate:"min=1,dive,required"`
	HistoryDays int      `yaml:"history_days" validate:"gte=15"`
	// SizingPercent is the share of free balance used as margin per open.
	SizingPercent float64 `yaml:"sizing_percent" validate:"gt=0,lte=100"`
	// MetricsListen enables the Prometheus endpoint when non-empty, e.g.
	// ":9090".
	MetricsListen string         `yaml:"metrics_listen"`
	MarketData    MarketDataConf `yaml:"market_data"`
}

// MarketDataConf selects the quote/history provider. The Polygon API key is
// taken from the POLYGON_API_KEY environment variable when unset here so the
// config file can stay out of secrets management.
type MarketDataConf struct {
	Provider marketdata.ProviderType `yaml:"provider" validate:"required,oneof=binance polygon"`
	APIKey   string                  `yaml:"api_key"`
}

// Load reads and validates a YAML config file.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(content)
}

// Parse decodes YAML config content, fills defaults and validates.
func Parse(content []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if cfg.MarketData.APIKey == "" {
		cfg.MarketData.APIKey = os.Getenv("POLYGON_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		PortfolioID:    DefaultPortfolioID,
		InitialBalance: DefaultInitialBalance,
		DatabasePath:   DefaultDatabasePath,
		Symbols:        []string{"BTC", "ETH", "SOL"},
		HistoryDays:    DefaultHistoryDays,
		SizingPercent:  DefaultSizingPercent,
		MarketData: MarketDataConf{
			Provider: marketdata.ProviderBinance,
		},
	}
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return nil
}
