package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	HTTPAddr string `env:"IANUS_HTTP_ADDR" envDefault:":8080"`

	// Env selects dev/prod behavior (dev seeds a demo directory on startup).
	Env    string `env:"IANUS_ENV" envDefault:"dev"`
	DBPath string `env:"IANUS_DB_PATH" envDefault:"./data/ianus.db"`

	LogLevel int `env:"IANUS_LOG_LEVEL" envDefault:"0"`

	// DecisionTimeout is how long the request boundary waits for the
	// decision engine before giving up on behalf of the caller.  The
	// underlying attempt still runs to completion.
	DecisionTimeout time.Duration `env:"IANUS_DECISION_TIMEOUT" envDefault:"10s"`

	// MatcherThreshold is the minimum identification score (0-100) the
	// matcher treats as a candidate match.  Read once at startup.
	MatcherThreshold int `env:"IANUS_MATCHER_THRESHOLD" envDefault:"70"`

	// Heartbeat retention.  RetentionDays 0 = keep forever.
	HeartbeatRetentionDays int `env:"IANUS_HEARTBEAT_RETENTION_DAYS" envDefault:"30"`
	PruneIntervalHours     int `env:"IANUS_PRUNE_INTERVAL_HOURS" envDefault:"6"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	// fail-soft: treat unknown env names as dev
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		cfg.Env = "dev"
	}

	if cfg.DecisionTimeout <= 0 {
		cfg.DecisionTimeout = 10 * time.Second
	}

	return cfg, nil
}
