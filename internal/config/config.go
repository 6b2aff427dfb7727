// Package config loads imgedit settings from the environment and parses
// YAML edit plans.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/imaging"
	"github.com/ironsheep/imgedit/internal/logging"
)

// Environment variable names.
const (
	EnvLogLevel     = "IMGEDIT_LOG_LEVEL"
	EnvLogFile      = "IMGEDIT_LOG_FILE"
	EnvDevelopment  = "IMGEDIT_DEV"
	EnvWorkers      = "IMGEDIT_WORKERS"
	EnvMaxPixels    = "IMGEDIT_MAX_PIXELS"
	EnvJPEGQuality  = "IMGEDIT_JPEG_QUALITY"
	EnvAutoOrient   = "IMGEDIT_AUTO_ORIENT"
	EnvResizeFilter = "IMGEDIT_RESIZE_FILTER"
	EnvPNGCompress  = "IMGEDIT_PNG_COMPRESSION"
)

// DefaultMaxPixels refuses decodes above roughly 100 megapixels.
const DefaultMaxPixels int64 = 100_000_000

// Config holds runtime settings.
type Config struct {
	LogLevel     string
	LogFile      string
	Development  bool
	Workers      int
	MaxPixels    int64
	JPEGQuality  int
	AutoOrient   bool
	ResizeFilter string

	// PNGCompression is one of default, none, fast or best.
	PNGCompression string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Workers:      runtime.NumCPU(),
		MaxPixels:    DefaultMaxPixels,
		JPEGQuality:  90,
		ResizeFilter: imaging.Nearest.String(),

		PNGCompression: "default",
	}
}

// Load reads envFile (or ".env" when envFile is empty) into the process
// environment and then builds a Config from it. A missing default ".env" is
// not an error; a missing explicit envFile is.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv overlays the IMGEDIT_* environment variables on Default.
func FromEnv() *Config {
	d := Default()
	return &Config{
		LogLevel:     getEnvOrDefault(EnvLogLevel, d.LogLevel),
		LogFile:      getEnvOrDefault(EnvLogFile, d.LogFile),
		Development:  parseBoolEnv(EnvDevelopment, d.Development),
		Workers:      parseIntEnv(EnvWorkers, d.Workers),
		MaxPixels:    parseInt64Env(EnvMaxPixels, d.MaxPixels),
		JPEGQuality:  parseIntEnv(EnvJPEGQuality, d.JPEGQuality),
		AutoOrient:   parseBoolEnv(EnvAutoOrient, d.AutoOrient),
		ResizeFilter: getEnvOrDefault(EnvResizeFilter, d.ResizeFilter),

		PNGCompression: getEnvOrDefault(EnvPNGCompress, d.PNGCompression),
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%s: unknown log level %q", EnvLogLevel, c.LogLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%s: must be at least 1, got %d", EnvWorkers, c.Workers)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("%s: must not be negative, got %d", EnvMaxPixels, c.MaxPixels)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%s: must be 1-100, got %d", EnvJPEGQuality, c.JPEGQuality)
	}
	if _, err := imaging.ParseFilter(c.ResizeFilter); err != nil {
		return fmt.Errorf("%s: %w", EnvResizeFilter, err)
	}
	if _, err := codec.ParsePNGCompression(c.PNGCompression); err != nil {
		return fmt.Errorf("%s: %w", EnvPNGCompress, err)
	}
	return nil
}

// Filter returns the parsed resize filter. Call Validate first.
func (c *Config) Filter() imaging.Filter {
	f, _ := imaging.ParseFilter(c.ResizeFilter)
	return f
}

// PNGLevel returns the parsed PNG compression level. Call Validate first.
func (c *Config) PNGLevel() png.CompressionLevel {
	level, _ := codec.ParsePNGCompression(c.PNGCompression)
	return level
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseBoolEnv accepts true/1/yes/on and false/0/no/off, case-insensitive.
func parseBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}
