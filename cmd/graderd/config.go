package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the daemon configuration, read from configs/graderd.yml
// with GRADEBOOK_-prefixed environment overrides.
type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// Optional sport profile overrides; builtins apply when empty.
	ProfilePath string `mapstructure:"profile_path"`

	PollInterval time.Duration `mapstructure:"poll_interval"`

	DatabaseURL string `mapstructure:"database_url"`
	RedisAddr   string `mapstructure:"redis_addr"`

	ESPN ESPNConfig `mapstructure:"espn"`
}

// ESPNConfig tunes the upstream data client.
type ESPNConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// LoadConfig reads the config file if present and applies environment
// overrides on top of the defaults.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8090")
	v.SetDefault("log_level", "info")
	v.SetDefault("poll_interval", 30*time.Second)
	v.SetDefault("database_url", "postgres://localhost:5432/gradebook?sslmode=disable")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("espn.rate_limit", 5.0)
	v.SetDefault("espn.burst", 3)

	v.SetEnvPrefix("GRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath("configs")
	v.SetConfigName("graderd")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
