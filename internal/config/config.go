// Package config reads the quizcore runtime configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizcore/internal/engine"
	"github.com/abhisek/quizcore/internal/hints"
	"github.com/abhisek/quizcore/internal/store/redis"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all runtime configuration.
type Config struct {
	// Backend selects the persistence backend.
	// Values: "sqlite", "redis", "memory"
	Backend string

	// DBPath is the SQLite database file. Empty means the default location.
	DBPath string

	// ContentPath is a YAML content file. Empty means the embedded catalog.
	ContentPath string

	Redis   RedisConfig
	Rewards RewardsConfig

	// LogLevel is one of debug, info, warn, error. Default: warn.
	LogLevel string
}

// RedisConfig holds the Redis backend settings.
type RedisConfig struct {
	Addr     string // Default: "localhost:6379"
	Password string
	DB       int
	Prefix   string // Default: "quizcore:"
}

// RewardsConfig holds the points policy.
type RewardsConfig struct {
	StartingPoints  int
	PointsPerAnswer int
	LetterCountCost int
	FirstLetterCost int
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() Config {
	ec := engine.DefaultConfig()
	return Config{
		Backend: BackendSQLite,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: redis.DefaultPrefix,
		},
		Rewards: RewardsConfig{
			StartingPoints:  ec.StartingPoints,
			PointsPerAnswer: ec.PointsPerAnswer,
			LetterCountCost: ec.HintCosts.LetterCount,
			FirstLetterCost: ec.HintCosts.FirstLetter,
		},
		LogLevel: "warn",
	}
}

// Load reads an optional .env file from the working directory, then builds
// and validates the configuration from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from QUIZCORE_* environment variables, falling
// back to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	if v := os.Getenv("QUIZCORE_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("QUIZCORE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUIZCORE_CONTENT"); v != "" {
		cfg.ContentPath = v
	}
	if v := os.Getenv("QUIZCORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("QUIZCORE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("QUIZCORE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v, ok := os.LookupEnv("QUIZCORE_REDIS_PREFIX"); ok {
		cfg.Redis.Prefix = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"QUIZCORE_REDIS_DB", &cfg.Redis.DB},
		{"QUIZCORE_STARTING_POINTS", &cfg.Rewards.StartingPoints},
		{"QUIZCORE_POINTS_PER_ANSWER", &cfg.Rewards.PointsPerAnswer},
		{"QUIZCORE_LETTER_COUNT_COST", &cfg.Rewards.LetterCountCost},
		{"QUIZCORE_FIRST_LETTER_COST", &cfg.Rewards.FirstLetterCost},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			errs = append(errs, err)
		}
	}

	return cfg, errors.Join(errs...)
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	*dst = n
	return nil
}

// Validate checks the backend selection, log level and rewards.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("QUIZCORE_REDIS_ADDR is required for the redis backend")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("QUIZCORE_REDIS_DB must be >= 0")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	r := c.Rewards
	for name, v := range map[string]int{
		"QUIZCORE_STARTING_POINTS":   r.StartingPoints,
		"QUIZCORE_POINTS_PER_ANSWER": r.PointsPerAnswer,
		"QUIZCORE_LETTER_COUNT_COST": r.LetterCountCost,
		"QUIZCORE_FIRST_LETTER_COST": r.FirstLetterCost,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

// Engine returns the engine reward policy.
func (c Config) Engine() engine.Config {
	return engine.Config{
		StartingPoints:  c.Rewards.StartingPoints,
		PointsPerAnswer: c.Rewards.PointsPerAnswer,
		HintCosts: hints.Costs{
			LetterCount: c.Rewards.LetterCountCost,
			FirstLetter: c.Rewards.FirstLetterCost,
		},
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
}
