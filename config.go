package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all process configuration, sourced from the environment
type Config struct {
	Port          int    `mapstructure:"port"`
	ClientURL     string `mapstructure:"client_url"`
	AdminPassword string `mapstructure:"admin_password"`
	HubURL        string `mapstructure:"hub_url"`
	HostedGameKey string `mapstructure:"hosted_game_key"`
	StatsDB       string `mapstructure:"stats_db"`
}

// LoadConfig reads configuration from environment variables with the
// documented defaults. An empty StatsDB disables the stats journal.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 3000)
	v.SetDefault("client_url", "*")
	v.SetDefault("admin_password", "admin")
	v.SetDefault("hub_url", "")
	v.SetDefault("hosted_game_key", "")
	v.SetDefault("stats_db", "")

	v.AutomaticEnv()
	for _, key := range []string{"port", "client_url", "admin_password", "hub_url", "hosted_game_key", "stats_db"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}
