// Package config loads rxtrace configuration from the environment.
//
// Load reads an optional .env file first (a missing file is not an error) and
// then the process environment. Values already set in the environment win
// over the file. Command-line flags override the returned Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB              = "RXTRACE_DB"
	EnvAddr            = "RXTRACE_ADDR"
	EnvLogLevel        = "RXTRACE_LOG_LEVEL"
	EnvShutdownTimeout = "RXTRACE_SHUTDOWN_TIMEOUT"
)

// Defaults applied when a variable is unset or empty.
const (
	DefaultDB              = "rxtrace.db"
	DefaultAddr            = ":8080"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds runtime configuration.
type Config struct {
	DBPath          string        // SQLite database file
	Addr            string        // HTTP listen address for serve
	LogLevel        slog.Level    // minimum level for the stderr logger
	ShutdownTimeout time.Duration // grace period for in-flight requests on shutdown
}

// Load reads ".env" from the working directory, if present, then the
// environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:          getenv(EnvDB, DefaultDB),
		Addr:            getenv(EnvAddr, DefaultAddr),
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	level, err := ParseLevel(getenv(EnvLogLevel, DefaultLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if raw := os.Getenv(EnvShutdownTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: invalid duration %q: %w", EnvShutdownTimeout, raw, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("%s: must not be negative, got %s", EnvShutdownTimeout, d)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

// ParseLevel maps debug, info, warn (or warning) and error to slog levels.
// Matching is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
