// Package config loads run configuration from a YAML file layered over the
// built-in defaults, with environment variable overrides. CLI flags are
// applied on top by each command.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tokenomics-lab/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
		UseMemory     bool   `yaml:"use_memory"`
	} `yaml:"storage"`
	Run struct {
		HorizonMonths int    `yaml:"horizon_months"`
		Workers       int    `yaml:"workers"` // 0 = number of CPUs
		OutputDir     string `yaml:"output_dir"`
	} `yaml:"run"`

	// Parameters start from domain defaults; the YAML file overrides only
	// the keys it names.
	Parameters domain.Parameters `yaml:"parameters"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{Parameters: domain.DefaultParameters()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Run.OutputDir = v
	}
	if v := os.Getenv("HORIZON_MONTHS"); v != "" {
		var months int
		if _, err := fmt.Sscanf(v, "%d", &months); err == nil {
			cfg.Run.HorizonMonths = months
		}
	}
	if v := os.Getenv("GROWTH_SCENARIO"); v != "" {
		cfg.Parameters.GrowthScenario = v
	}
	if v := os.Getenv("MARKET_CYCLE"); v != "" {
		cfg.Parameters.MarketCycle = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Run.HorizonMonths == 0 {
		cfg.Run.HorizonMonths = 60
	}
	if cfg.Run.OutputDir == "" {
		cfg.Run.OutputDir = "output"
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Run.HorizonMonths < 1 {
		return fmt.Errorf("run.horizon_months must be >= 1, got %d", c.Run.HorizonMonths)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must be >= 0, got %d", c.Run.Workers)
	}
	if err := c.Parameters.Validate(); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	return nil
}
