// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting of the calculator service and CLI.
type Config struct {
	Addr             string        `env:"CALC_ADDR"                envDefault:":8080"`
	LogLevel         string        `env:"LOG_LEVEL"                envDefault:"info"`
	ServiceName      string        `env:"OTEL_SERVICE_NAME"        envDefault:"go-chi-calculator"`
	TelemetryEnabled bool          `env:"CALC_TELEMETRY_ENABLED"   envDefault:"true"`
	ShutdownTimeout  time.Duration `env:"CALC_SHUTDOWN_TIMEOUT"    envDefault:"5s"`

	SessionTTL           time.Duration `env:"CALC_SESSION_TTL"            envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"CALC_SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	MaxSessions          int           `env:"CALC_MAX_SESSIONS"           envDefault:"10000"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("CALC_ADDR must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("CALC_SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("CALC_SESSION_TTL must not be negative"))
	}
	if c.SessionTTL > 0 && c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("CALC_SESSION_SWEEP_INTERVAL must be positive when sessions expire"))
	}
	if c.MaxSessions < 0 {
		errs = append(errs, errors.New("CALC_MAX_SESSIONS must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
