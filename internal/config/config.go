// Package config loads application configuration from file and
// environment, and bootstraps the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Hub    HubConfig    `yaml:"hub" mapstructure:"hub"`
	Mirror MirrorConfig `yaml:"mirror" mapstructure:"mirror"`
	Split  SplitConfig  `yaml:"split" mapstructure:"split"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history store.
type StoreConfig struct {
	// Driver is sqlite, postgres, or off.
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// HubConfig holds dataset hub settings. Token is the only place the
// upload credential is read from the environment (DATASET_HUB_TOKEN);
// everything below the command layer receives it explicitly.
type HubConfig struct {
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Token   string  `yaml:"token" mapstructure:"token"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// MirrorConfig holds FTP bulk-storage settings.
type MirrorConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SplitConfig holds defaults for the split pipeline.
type SplitConfig struct {
	TestSize float64 `yaml:"test_size" mapstructure:"test_size"`
	Seed     int64   `yaml:"seed" mapstructure:"seed"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DATASET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "dataset-prep.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("hub.base_url", "https://hub.sells.dev")
	v.SetDefault("hub.token", "")
	v.SetDefault("hub.rps", 5.0)
	v.SetDefault("mirror.timeout_secs", 30)
	v.SetDefault("split.test_size", 0.2)
	v.SetDefault("split.seed", 42)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
