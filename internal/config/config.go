package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for terragate
type Config struct {
	// Directory where scan artifacts are written
	OutputDir string `mapstructure:"output_dir"`

	// Gate thresholds (strict: count > max fails)
	MaxCritical int `mapstructure:"max_critical"`
	MaxHigh     int `mapstructure:"max_high"`

	// Per-tool execution timeout
	ToolTimeout time.Duration `mapstructure:"tool_timeout"`

	// Disable colored console output
	NoColor bool `mapstructure:"no_color"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   "scan-results",
		MaxCritical: 0,
		MaxHigh:     5,
		ToolTimeout: 5 * time.Minute,
		NoColor:     false,
		Verbose:     false,
		Debug:       false,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (~/.terragate.yaml or ./terragate.yaml)
// 3. Environment variables (TERRAGATE_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("max_critical", defaults.MaxCritical)
	v.SetDefault("max_high", defaults.MaxHigh)
	v.SetDefault("tool_timeout", defaults.ToolTimeout)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)

	v.SetConfigName("terragate")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search order: current directory, home, XDG config dir.
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "terragate"))
		}
	}

	v.SetEnvPrefix("TERRAGATE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxCritical < 0 {
		return fmt.Errorf("max_critical cannot be negative")
	}
	if c.MaxHigh < 0 {
		return fmt.Errorf("max_high cannot be negative")
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool_timeout must be positive")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	return nil
}

// GetOutputPath returns the absolute path to the output directory
func (c *Config) GetOutputPath() (string, error) {
	if len(c.OutputDir) >= 2 && c.OutputDir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, c.OutputDir[2:]), nil
	}

	absPath, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# terragate configuration
# Save this file as ~/.terragate.yaml or ./terragate.yaml

# Directory where scan artifacts are written
output_dir: scan-results

# Gate thresholds. A count strictly above its max fails the gate.
# max_critical 0 means a single critical finding fails the build.
max_critical: 0
max_high: 5

# Per-tool execution timeout
tool_timeout: 5m

# Disable colored console output
no_color: false

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
