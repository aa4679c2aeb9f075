// Package config loads default settings for getcolour from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jmylchreest/getcolour/internal/colour"
)

// Environment variable names.
const (
	EnvMode         = "GETCOLOUR_MODE"
	EnvWorkers      = "GETCOLOUR_WORKERS"
	EnvTruncate     = "GETCOLOUR_TRUNCATE"
	EnvFormat       = "GETCOLOUR_FORMAT"
	EnvVerbose      = "GETCOLOUR_VERBOSE"
	EnvSwatchWidth  = "GETCOLOUR_SWATCH_WIDTH"
	EnvSwatchHeight = "GETCOLOUR_SWATCH_HEIGHT"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the defaults for a single invocation. Command-line flags take
// precedence over every value here.
type Config struct {
	Mode         colour.Mode
	Workers      int
	Truncate     bool
	Format       string
	Verbose      bool
	SwatchWidth  int
	SwatchHeight int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:         colour.ModeStandard,
		Workers:      1,
		Format:       FormatText,
		SwatchWidth:  256,
		SwatchHeight: 256,
	}
}

// Load reads an optional .env file from the working directory and then the
// GETCOLOUR_* environment variables on top of the defaults.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup to read variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvMode); ok {
		mode, err := colour.ParseMode(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMode, err)
		}
		cfg.Mode = mode
	}

	var err error
	if cfg.Workers, err = envInt(lookup, EnvWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.SwatchWidth, err = envInt(lookup, EnvSwatchWidth, cfg.SwatchWidth); err != nil {
		return Config{}, err
	}
	if cfg.SwatchHeight, err = envInt(lookup, EnvSwatchHeight, cfg.SwatchHeight); err != nil {
		return Config{}, err
	}
	if cfg.Truncate, err = envBool(lookup, EnvTruncate, cfg.Truncate); err != nil {
		return Config{}, err
	}
	if cfg.Verbose, err = envBool(lookup, EnvVerbose, cfg.Verbose); err != nil {
		return Config{}, err
	}
	if v, ok := lookup(EnvFormat); ok {
		cfg.Format = strings.ToLower(strings.TrimSpace(v))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if _, err := colour.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("unsupported format: %s (supported: %s, %s)", c.Format, FormatText, FormatJSON)
	}
	if c.SwatchWidth < 1 || c.SwatchHeight < 1 {
		return fmt.Errorf("swatch size must be positive, got %dx%d", c.SwatchWidth, c.SwatchHeight)
	}
	return nil
}

func envInt(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envBool(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}
