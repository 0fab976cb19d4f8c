package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Analyze AnalyzeConfig `mapstructure:"analyze"`
	Verify  VerifyConfig  `mapstructure:"verify"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

type AnalyzeConfig struct {
	Threshold   int `mapstructure:"threshold"`
	TopLimit    int `mapstructure:"top_limit"`
	RecentLimit int `mapstructure:"recent_limit"`
}

type VerifyConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConnString builds the pgx connection URL.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// Default returns the built-in configuration, ignoring config files and the
// environment.
func Default() *Config {
	var cfg Config
	// defaults always unmarshal cleanly
	_ = defaults().Unmarshal(&cfg)
	return &cfg
}

func Load(configPath string) (*Config, error) {
	v := defaults()

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".authhawk"))
		}
	}

	// Environment variables override (AUTHHAWK_STORE_TYPE, etc.)
	v.SetEnvPrefix("AUTHHAWK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		_, discoveryMiss := err.(viper.ConfigFileNotFoundError)
		if !discoveryMiss && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func defaults() *viper.Viper {
	v := viper.New()

	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.sqlite.path", defaultStorePath())
	v.SetDefault("store.postgres.port", 5432)
	v.SetDefault("store.postgres.sslmode", "require")
	v.SetDefault("analyze.threshold", 3)
	v.SetDefault("analyze.top_limit", 10)
	v.SetDefault("analyze.recent_limit", 10)
	v.SetDefault("verify.dir", defaultArchiveDir())
	v.SetDefault("verify.pattern", "*.gz.sha256")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	return v
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "authhawk.db"
	}
	return filepath.Join(home, ".authhawk", "events.db")
}

func defaultArchiveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "log-archive"
	}
	return filepath.Join(home, "log-archive")
}
