// Package config handles CLI configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. COULOMB_TOLERANCE.
const EnvPrefix = "COULOMB"

// ErrConfigExists is returned when writing over an existing config file.
var ErrConfigExists = errors.New("config file already exists")

// Config represents the CLI configuration.
type Config struct {
	Tolerance     float64       `yaml:"tolerance" mapstructure:"tolerance"`
	MaxIterations int           `yaml:"max_iterations" mapstructure:"max_iterations"`
	Verbosity     string        `yaml:"verbosity" mapstructure:"verbosity"`
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	Gamma         string        `yaml:"gamma" mapstructure:"gamma"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Format        string        `yaml:"format" mapstructure:"format"`
	LogLevel      string        `yaml:"log_level" mapstructure:"log_level"`
}

// Default returns the configuration used when no file or environment
// override is present. Workers 0 means one per CPU.
func Default() *Config {
	return &Config{
		Tolerance:     1e-15,
		MaxIterations: 100000,
		Verbosity:     "warn",
		Workers:       0,
		Gamma:         "lanczos",
		Timeout:       0,
		Format:        "auto",
		LogLevel:      "info",
	}
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.coulomb/config.yaml
// - Windows: %USERPROFILE%\.coulomb\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".coulomb", "config.yaml")
}

// LoadConfig loads configuration from the specified path and applies
// COULOMB_* environment overrides on top.
// If the file doesn't exist, defaults plus environment are returned without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("verbosity", d.Verbosity)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("gamma", d.Gamma)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
}

// WriteDefault writes the default configuration to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
