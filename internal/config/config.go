// Package config loads the shelf service configuration.
//
// Values are resolved in order, later sources winning:
//  1. built-in defaults
//  2. a .env file in the working directory (optional)
//  3. process environment
//  4. a YAML file named by SHELF_CONFIG (optional)
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/shelf-occupancy/internal/occupancy"
)

const (
	DefaultAddr    = "127.0.0.1:5001"
	DefaultShelfID = "SHELF_001"
)

// Config holds everything the service needs at startup.
type Config struct {
	// Addr is the listen address. Loopback only by default.
	Addr string `yaml:"addr"`

	// ShelfID is reported when a request does not name its shelf.
	ShelfID string `yaml:"shelf_id"`

	// Occupancy holds the slot count and brightness threshold.
	Occupancy occupancy.Config `yaml:"occupancy"`

	// WorkDir is the directory request image paths are resolved against.
	WorkDir string `yaml:"work_dir"`

	// PlanogramPath points at an optional slot-to-product YAML file.
	PlanogramPath string `yaml:"planogram"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Addr:      DefaultAddr,
		ShelfID:   DefaultShelfID,
		Occupancy: occupancy.DefaultConfig(),
		WorkDir:   ".",
		LogLevel:  "info",
	}
}

// Load builds the configuration from defaults, .env, environment and the
// optional YAML file, then validates it.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()
	cfg.Addr = getEnv("SHELF_ADDR", cfg.Addr)
	cfg.ShelfID = getEnv("SHELF_ID", cfg.ShelfID)
	cfg.Occupancy.Slots = getEnvInt("SHELF_SLOTS", cfg.Occupancy.Slots)
	cfg.Occupancy.Threshold = getEnvFloat("SHELF_THRESHOLD", cfg.Occupancy.Threshold)
	cfg.WorkDir = getEnv("SHELF_WORKDIR", cfg.WorkDir)
	cfg.PlanogramPath = getEnv("SHELF_PLANOGRAM", cfg.PlanogramPath)
	cfg.LogLevel = getEnv("SHELF_LOG_LEVEL", cfg.LogLevel)

	if path := os.Getenv("SHELF_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the keys present in a YAML file onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the listen address, shelf id, log level and occupancy settings.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.ShelfID == "" {
		return fmt.Errorf("shelf id must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return c.Occupancy.Validate()
}

// SlogLevel returns the configured log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
