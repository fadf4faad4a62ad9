package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env          string             `mapstructure:"env"`
	Healthchecks HealthchecksConfig `mapstructure:"healthchecks"`
}

type HealthchecksConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	CheckID     string `mapstructure:"check_id"`
	PingTimeout int    `mapstructure:"ping_timeout"`
}

func Load() (*Config, error) {

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("local")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Healthchecks.CheckID == "" {
		return nil, errors.New("healthchecks check ID is required (set HEALTHCHECKS_CHECK_ID)")
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("env", "local")

	// Healthchecks defaults
	viper.SetDefault("healthchecks.base_url", "https://hc-ping.com")
	viper.SetDefault("healthchecks.check_id", "")
	viper.SetDefault("healthchecks.ping_timeout", 10)
}

func (c *Config) GetPingTimeout() time.Duration {
	return time.Duration(c.Healthchecks.PingTimeout) * time.Second
}
