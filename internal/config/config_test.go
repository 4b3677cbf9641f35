package config

import (
	"os"
	"path/filepath"
	"testing"

	"tokenomics-lab/internal/domain"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Run.HorizonMonths != 60 {
		t.Errorf("Expected default horizon 60, got %d", cfg.Run.HorizonMonths)
	}
	if cfg.Run.OutputDir != "output" {
		t.Errorf("Expected default output dir, got %s", cfg.Run.OutputDir)
	}
	if cfg.Parameters.TotalSupply != 1_000_000_000 {
		t.Errorf("Expected default total supply, got %v", cfg.Parameters.TotalSupply)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9191"
run:
  horizon_months: 24
parameters:
  total_supply: 500000000
  growth_scenario: aggressive
  price:
    elasticity: 1.2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9191" {
		t.Errorf("Expected addr :9191, got %s", cfg.Server.Addr)
	}
	if cfg.Run.HorizonMonths != 24 {
		t.Errorf("Expected horizon 24, got %d", cfg.Run.HorizonMonths)
	}
	if cfg.Parameters.TotalSupply != 500_000_000 {
		t.Errorf("Expected total supply override, got %v", cfg.Parameters.TotalSupply)
	}
	if cfg.Parameters.GrowthScenario != domain.ScenarioAggressive {
		t.Errorf("Expected aggressive scenario, got %s", cfg.Parameters.GrowthScenario)
	}
	if cfg.Parameters.Price.Elasticity != 1.2 {
		t.Errorf("Expected elasticity 1.2, got %v", cfg.Parameters.Price.Elasticity)
	}

	// Keys the file does not name keep their defaults.
	if cfg.Parameters.InitialTokenPrice != 0.05 {
		t.Errorf("Expected default initial price, got %v", cfg.Parameters.InitialTokenPrice)
	}
	if cfg.Parameters.Price.MaxMultiplier != 3.0 {
		t.Errorf("Expected default max multiplier, got %v", cfg.Parameters.Price.MaxMultiplier)
	}
	if len(cfg.Parameters.Allocations) != 10 {
		t.Errorf("Expected default allocation table, got %d rows", len(cfg.Parameters.Allocations))
	}
	if cfg.Run.OutputDir != "output" {
		t.Errorf("Expected default output dir, got %s", cfg.Run.OutputDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Overridden config should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9191"
storage:
  postgres_dsn: "postgres://file"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("POSTGRES_DSN", "postgres://env")
	t.Setenv("CLICKHOUSE_DSN", "clickhouse://env")
	t.Setenv("HORIZON_MONTHS", "36")
	t.Setenv("GROWTH_SCENARIO", "conservative")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("Expected env addr to win, got %s", cfg.Server.Addr)
	}
	if cfg.Storage.PostgresDSN != "postgres://env" {
		t.Errorf("Expected env DSN to win, got %s", cfg.Storage.PostgresDSN)
	}
	if cfg.Storage.ClickhouseDSN != "clickhouse://env" {
		t.Errorf("Expected env clickhouse DSN, got %s", cfg.Storage.ClickhouseDSN)
	}
	if cfg.Run.HorizonMonths != 36 {
		t.Errorf("Expected env horizon 36, got %d", cfg.Run.HorizonMonths)
	}
	if cfg.Parameters.GrowthScenario != domain.ScenarioConservative {
		t.Errorf("Expected conservative scenario, got %s", cfg.Parameters.GrowthScenario)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("parameters: [not a map"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Run.HorizonMonths = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero horizon")
	}
	cfg.Run.HorizonMonths = 60

	cfg.Run.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative workers")
	}
	cfg.Run.Workers = 0

	cfg.Parameters.TotalSupply = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid parameters")
	}
}
