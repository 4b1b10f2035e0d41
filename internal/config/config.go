// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Seed() SeedConfig
	Output() OutputConfig

	// Seed Setters
	SetSeedDirectory(dir string)
	SetSeedRestore(bool)

	// Output Setters
	SetOutputFormat(format string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	SeedCfg   SeedConfig   `mapstructure:"seed" yaml:"seed"`
	OutputCfg OutputConfig `mapstructure:"output" yaml:"output"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Seed() SeedConfig     { return c.SeedCfg }
func (c *Config) Output() OutputConfig { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetSeedDirectory(dir string) { c.SeedCfg.Directory = dir }
func (c *Config) SetSeedRestore(b bool)       { c.SeedCfg.Restore = b }

func (c *Config) SetOutputFormat(format string) { c.OutputCfg.Format = format }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SeedConfig controls where random seeds are persisted between runs.
type SeedConfig struct {
	// Directory holds nunit_random_seed.tmp. A leading ~ is expanded to the home directory.
	Directory string `mapstructure:"directory" yaml:"directory"`
	// Restore reloads a persisted seed before settings are printed.
	Restore bool `mapstructure:"restore" yaml:"restore"`
}

// OutputConfig controls how loaded settings are rendered.
type OutputConfig struct {
	// Format is "json" or "summary".
	Format string `mapstructure:"format" yaml:"format"`
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "runsettings")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Seed --
	v.SetDefault("seed.directory", ".")
	v.SetDefault("seed.restore", false)

	// -- Output --
	v.SetDefault("output.format", "json")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Normalize expands a leading ~ in the seed directory.
func (c *Config) Normalize() error {
	dir, err := homedir.Expand(c.SeedCfg.Directory)
	if err != nil {
		return fmt.Errorf("failed to expand seed.directory %q: %w", c.SeedCfg.Directory, err)
	}
	c.SeedCfg.Directory = dir
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.SeedCfg.Directory == "" {
		return fmt.Errorf("seed.directory must not be empty")
	}
	switch c.OutputCfg.Format {
	case "json", "summary":
	default:
		return fmt.Errorf("output.format must be one of json, summary (got %q)", c.OutputCfg.Format)
	}
	switch c.LoggerCfg.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be one of json, console (got %q)", c.LoggerCfg.Format)
	}
	return nil
}
