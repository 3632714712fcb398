package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	// Embedded zoneinfo so CARDFORM_TIMEZONE resolves on hosts without tzdata.
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by LoadEnvFile when CARDFORM_ENV_FILE is unset.
const DefaultEnvFile = ".env"

// Config holds all application configuration
type Config struct {
	Logger LoggerConfig
	Form   FormConfig
}

// FormConfig holds card form session configuration
type FormConfig struct {
	Timezone         string
	Location         *time.Location
	LayoutPath       string
	ValidateOnChange bool
	MaxSubmits       int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Form: FormConfig{
			Timezone:         getEnv("CARDFORM_TIMEZONE", "UTC"),
			LayoutPath:       getEnv("CARDFORM_LAYOUT_PATH", ""),
			ValidateOnChange: getEnvAsBool("CARDFORM_VALIDATE_ON_CHANGE", true),
			MaxSubmits:       getEnvAsInt("CARDFORM_MAX_SUBMITS", 5),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from an env file if present. The file is
// CARDFORM_ENV_FILE or .env; variables already set in the environment win.
func LoadEnvFile() error {
	path := getEnv("CARDFORM_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration and resolves the form timezone
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Form.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Form.Timezone, err)
	}
	c.Form.Location = loc

	if c.Form.MaxSubmits < 1 {
		return fmt.Errorf("max submits must be at least 1, got %d", c.Form.MaxSubmits)
	}

	if c.Form.LayoutPath != "" {
		if _, err := os.Stat(c.Form.LayoutPath); err != nil {
			return fmt.Errorf("layout file: %w", err)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logger.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// Clock returns the current time in the configured form location
func (c *FormConfig) Clock() func() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
