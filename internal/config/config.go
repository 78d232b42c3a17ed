// Package config provides configuration loading for roomd.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the process configuration, constructed once at startup and
// passed into each component.
type Config struct {
	ListenAddr        string `mapstructure:"listen_addr" validate:"required"`
	DBPath            string `mapstructure:"db_path" validate:"required"`
	RoomTTLSeconds    int    `mapstructure:"room_ttl_seconds" validate:"gt=0"`
	SessionTTLSeconds int    `mapstructure:"session_ttl_seconds" validate:"gt=0"`
	LogLevel          string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat         string `mapstructure:"log_format" validate:"oneof=json console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:        ":8000",
		DBPath:            "roomd.db",
		RoomTTLSeconds:    15000,
		SessionTTLSeconds: 100000,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// Load reads configuration from an optional YAML file and ROOMD_*
// environment variables, layered over the defaults. If configFile is
// empty, roomd.yaml is searched for in the working directory and
// /etc/roomd; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("room_ttl_seconds", def.RoomTTLSeconds)
	v.SetDefault("session_ttl_seconds", def.SessionTTLSeconds)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("roomd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/roomd")
	}

	v.SetEnvPrefix("ROOMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("config field %s is invalid (rule %s)", e.Field(), e.Tag())
		}
		return err
	}
	return nil
}
