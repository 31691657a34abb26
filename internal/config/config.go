// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads coopxor configuration.
package config

import (
	"errors"
	"fmt"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/coop/host"
)

// Config is the coopxor configuration.
type Config struct {
	Stepper   StepperConfig   `koanf:"stepper"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Arena     ArenaConfig     `koanf:"arena"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// StepperConfig configures the coop stepper.
type StepperConfig struct {
	// InitialBudget is the first invocation's slice budget in bytes.
	InitialBudget uint64 `koanf:"initial_budget"`
}

// SchedulerConfig configures the host scheduler.
type SchedulerConfig struct {
	// Capacity bounds the inbox and the run queue.
	Capacity int `koanf:"capacity"`
}

// ArenaConfig configures the buffer arena.
type ArenaConfig struct {
	Name string `koanf:"name"`
	// LimitBytes caps live buffer bytes. Zero means unlimited.
	LimitBytes int `koanf:"limit_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address of /metrics. Empty disables it.
	Addr string `koanf:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Stepper.InitialBudget == 0 {
		cfg.Stepper.InitialBudget = coop.InitialBudget
	}
	if cfg.Scheduler.Capacity == 0 {
		cfg.Scheduler.Capacity = 64
	}
	if cfg.Arena.Name == "" {
		cfg.Arena.Name = coop.ResourceName
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	if c.Scheduler.Capacity < host.MinCapacity || c.Scheduler.Capacity > 1<<16 {
		return fmt.Errorf("invalid scheduler capacity: %d (must be %d-65536)", c.Scheduler.Capacity, host.MinCapacity)
	}
	if c.Arena.LimitBytes < 0 {
		return fmt.Errorf("invalid arena limit: %d (must not be negative)", c.Arena.LimitBytes)
	}
	if c.Arena.Name == "" {
		return errors.New("arena name required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q (must be json or console)", c.Log.Format)
	}
	return nil
}
