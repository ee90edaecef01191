// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists the Primeforge configuration.
//
// Values are resolved in viper's usual order: explicit flags, environment
// variables (PRIMEFORGE_ prefix, dots replaced by underscores), the config
// file, then the defaults passed to LoadConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
}

// DatabaseConfig selects the key store backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// EngineConfig holds the key generation defaults.
type EngineConfig struct {
	Bits        int           `mapstructure:"bits" yaml:"bits"`
	Exponent    int64         `mapstructure:"exponent" yaml:"exponent"`
	Rounds      int           `mapstructure:"rounds" yaml:"rounds"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Parallel    bool          `mapstructure:"parallel" yaml:"parallel"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// Defaults returns the built-in configuration values keyed the way viper
// addresses them.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":       "sqlite",
		"database.dsn":        "./primeforge.db",
		"language":            "en",
		"engine.bits":         512,
		"engine.exponent":     65537,
		"engine.rounds":       40,
		"engine.timeout":      "2m",
		"engine.parallel":     true,
		"engine.max_attempts": 5,
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks value ranges that viper cannot express.
func (c Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("%w: database.type %q (want sqlite, postgres or mysql)", ErrInvalidConfig, c.Database.Type)
	}
	e := c.Engine
	if e.Bits < 8 {
		return fmt.Errorf("%w: engine.bits must be >= 8, got %d", ErrInvalidConfig, e.Bits)
	}
	if e.Exponent < 3 || e.Exponent%2 == 0 {
		return fmt.Errorf("%w: engine.exponent must be odd and >= 3, got %d", ErrInvalidConfig, e.Exponent)
	}
	if e.Rounds < 1 {
		return fmt.Errorf("%w: engine.rounds must be >= 1, got %d", ErrInvalidConfig, e.Rounds)
	}
	if e.MaxAttempts < 1 {
		return fmt.Errorf("%w: engine.max_attempts must be >= 1, got %d", ErrInvalidConfig, e.MaxAttempts)
	}
	if e.Timeout < 0 {
		return fmt.Errorf("%w: engine.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Primeforge")
		default: // Linux, macOS, etc.
			configDir = "/etc/primeforge"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "primeforge")
	}

	return filepath.Join(configDir, "primeforge.yaml"), nil
}

// LoadConfig resolves a T from defaults, config file, environment and the
// flags of cmd. A missing config file is reported as
// viper.ConfigFileNotFoundError together with the resolved T, so callers
// can continue on defaults.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("primeforge")
	v.SetConfigType("yaml")

	// An explicit --config path wins over the search paths.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return c, err
		}
		notFound = err
	}

	v.SetEnvPrefix("primeforge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

// WriteConfigFile writes c as YAML to the user (or system) config path,
// creating the directory when needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the DSN may carry database credentials.
	return os.WriteFile(path, data, 0600)
}
