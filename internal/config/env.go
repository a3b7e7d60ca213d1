package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServiceConfig holds calcsvc settings read from the environment.
type ServiceConfig struct {
	Addr         string        `env:"BATTLECALC_ADDR" envDefault:":8080"`
	CatalogDir   string        `env:"BATTLECALC_CATALOG_DIR"`
	Trials       int           `env:"BATTLECALC_TRIALS" envDefault:"5000"`
	Workers      int           `env:"BATTLECALC_WORKERS" envDefault:"0"`
	RoundLimit   int           `env:"BATTLECALC_ROUND_LIMIT" envDefault:"100"`
	MaxBattles   int           `env:"BATTLECALC_MAX_BATTLES" envDefault:"256"`
	BuildTimeout time.Duration `env:"BATTLECALC_BUILD_TIMEOUT" envDefault:"30s"`
	LogLevel     string        `env:"BATTLECALC_LOG_LEVEL" envDefault:"info"`
	LogPretty    bool          `env:"BATTLECALC_LOG_PRETTY" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServiceConfig() (ServiceConfig, error) {
	var cfg ServiceConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServiceConfig{}, err
	}
	if cfg.Trials <= 0 {
		return ServiceConfig{}, fmt.Errorf("BATTLECALC_TRIALS must be positive, got %d", cfg.Trials)
	}
	if cfg.RoundLimit <= 0 {
		return ServiceConfig{}, fmt.Errorf("BATTLECALC_ROUND_LIMIT must be positive, got %d", cfg.RoundLimit)
	}
	return cfg, nil
}
