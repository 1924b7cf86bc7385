// Package config reads service configuration from an optional YAML file with
// environment-variable overrides, e.g. BOOKING_DATABASE_URL overrides
// database.url.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Auth     Auth     `mapstructure:"auth"`
	Logging  Logging  `mapstructure:"logging"`
	Jobs     Jobs     `mapstructure:"jobs"`
}

type Server struct {
	Port            int    `mapstructure:"port"`
	Environment     string `mapstructure:"environment"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds"`
}

type Database struct {
	URL                    string `mapstructure:"url"`
	MaxConns               int32  `mapstructure:"max_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

type Auth struct {
	JWTSecret    string   `mapstructure:"jwt_secret"`
	StaticTokens []string `mapstructure:"static_tokens"`
}

type Logging struct {
	Level  string      `mapstructure:"level"`
	Format string      `mapstructure:"format"`
	File   LoggingFile `mapstructure:"file"`
}

type LoggingFile struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Jobs struct {
	// PendingTTLMinutes is how long an unconfirmed booking holds its slot
	// before the sweeper cancels it. Zero disables the sweeper.
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"`
	// SweepInterval is a cron expression; defaults to every five minutes.
	SweepInterval string `mapstructure:"sweep_interval"`
}

func (j Jobs) PendingTTL() time.Duration {
	return time.Duration(j.PendingTTLMinutes) * time.Minute
}

// Load reads configuration from configPath (optional) and the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("jobs.pending_ttl_minutes", 30)
	v.SetDefault("jobs.sweep_interval", "*/5 * * * *")

	if err := v.ReadInConfig(); err != nil {
		// The file is optional; env-only deployments are normal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (BOOKING_DATABASE_URL)")
	}
	if c.Auth.JWTSecret == "" && len(c.Auth.StaticTokens) == 0 {
		return fmt.Errorf("auth.jwt_secret or auth.static_tokens is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
