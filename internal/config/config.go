package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// StoreConfig identifies one side's backing store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" | "json"
}

// PipelineConfig holds the optional pipeline triggers (off when empty).
type PipelineConfig struct {
	Schedule  string `mapstructure:"schedule"`
	WatchSeed string `mapstructure:"watch_seed"`
}

// Config is the full service configuration.
type Config struct {
	Listen      string         `mapstructure:"listen"`
	Log         LogConfig      `mapstructure:"log"`
	Source      StoreConfig    `mapstructure:"source"`
	Destination StoreConfig    `mapstructure:"destination"`
	Pipeline    PipelineConfig `mapstructure:"pipeline"`
}

// Load reads configuration from an optional YAML file plus PEOPLEMOVER_*
// environment overrides (e.g. PEOPLEMOVER_SOURCE_DSN).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":12345")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("source.driver", "sqlite")
	v.SetDefault("source.dsn", "data/input_database.sqlite")
	v.SetDefault("destination.driver", "sqlite")
	v.SetDefault("destination.dsn", "data/output_database.sqlite")
	v.SetDefault("pipeline.schedule", "")
	v.SetDefault("pipeline.watch_seed", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("PEOPLEMOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
