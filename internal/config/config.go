package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for various commands
type DefaultsConfig struct {
	// Report filters
	Where  []string `mapstructure:"where" json:"where"`
	Dedupe bool     `mapstructure:"dedupe" json:"dedupe"`

	// Watch command defaults
	Settle     string   `mapstructure:"settle" json:"settle"`
	Extensions []string `mapstructure:"extensions" json:"extensions"`

	// Reader limits
	MaxBlockSize int `mapstructure:"max_block_size" json:"max_block_size"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Defaults: DefaultsConfig{
			Settle:       "2s",
			Extensions:   []string{".dem", ".dem.gz", ".dem.zst", ".dem.lz4"},
			MaxBlockSize: 1 << 20,
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("demostats")
	v.SetConfigType("yaml")

	// Add config paths (in order of precedence, lowest first)
	v.AddConfigPath("/etc/demostats/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "demostats"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("DEMOSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "DEMOSTATS_FORMAT")
	v.BindEnv("quiet", "DEMOSTATS_QUIET")
	v.BindEnv("verbose", "DEMOSTATS_VERBOSE")
	v.BindEnv("defaults.dedupe", "DEMOSTATS_DEDUPE")
	v.BindEnv("defaults.settle", "DEMOSTATS_SETTLE")

	// Set defaults
	cfg := Default()
	setDefaults(v, cfg)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// .demostats.yaml is the dotfile spelling of the same file
		v.SetConfigName(".demostats")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("defaults.dedupe", cfg.Defaults.Dedupe)
	v.SetDefault("defaults.settle", cfg.Defaults.Settle)
	v.SetDefault("defaults.extensions", cfg.Defaults.Extensions)
	v.SetDefault("defaults.max_block_size", cfg.Defaults.MaxBlockSize)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that was loaded
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("demostats")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	v.SetConfigName(".demostats")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}
