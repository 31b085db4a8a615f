// Package config loads the simulator's settings from the environment.
//
// Optional .env files are read first with godotenv (existing variables win),
// then the struct is parsed with caarlos0/env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

// Config holds engine and workload settings for cmd/adaptsim.
type Config struct {
	Capacity      int         `env:"ADAPTSIM_CAPACITY" envDefault:"128"`
	SwitchEvery   uint64      `env:"ADAPTSIM_SWITCH_EVERY" envDefault:"100"`
	InitialPolicy policy.Kind `env:"ADAPTSIM_INITIAL_POLICY" envDefault:"lru"`

	// Workload is one of uniform, zipf, scan, phased or manual.
	Workload string  `env:"ADAPTSIM_WORKLOAD" envDefault:"phased"`
	Ops      int     `env:"ADAPTSIM_OPS" envDefault:"100000"`
	Keys     int     `env:"ADAPTSIM_KEYS" envDefault:"1000"`
	ZipfS    float64 `env:"ADAPTSIM_ZIPF_S" envDefault:"1.1"`
	Seed     int64   `env:"ADAPTSIM_SEED" envDefault:"1"`
	// Sequence is the comma-separated key list used by the manual workload.
	Sequence string `env:"ADAPTSIM_SEQUENCE"`

	// MetricsAddr serves Prometheus /metrics when non-empty (e.g. ":8080").
	MetricsAddr string     `env:"ADAPTSIM_METRICS_ADDR"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (default ".env"; missing files are
// skipped) and parses the environment into a Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error; useful at startup.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the engine or workload cannot run with.
func (c Config) Validate() error {
	if err := policy.CheckCapacity(c.Capacity); err != nil {
		return fmt.Errorf("config: ADAPTSIM_CAPACITY: %w", err)
	}
	if c.Ops < 0 || c.Keys < 1 {
		return fmt.Errorf("config: ops=%d keys=%d: ops must be >= 0 and keys >= 1", c.Ops, c.Keys)
	}
	if (c.Workload == "zipf" || c.Workload == "phased") && c.ZipfS <= 1 {
		return fmt.Errorf("config: ADAPTSIM_ZIPF_S must be > 1, got %v", c.ZipfS)
	}
	return nil
}
