package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the management server.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisDB     int    `mapstructure:"REDIS_DB"`
	EventPrefix string `mapstructure:"EVENT_PREFIX"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	// Defaults stamped onto newly registered clients.
	DefaultClientName           string `mapstructure:"DEFAULT_CLIENT_NAME"`
	AccessTokenValiditySeconds  int    `mapstructure:"ACCESS_TOKEN_VALIDITY_SECONDS"`
	RefreshTokenValiditySeconds int    `mapstructure:"REFRESH_TOKEN_VALIDITY_SECONDS"`
	IDTokenValiditySeconds      int    `mapstructure:"ID_TOKEN_VALIDITY_SECONDS"`
}

// LoadConfig reads configuration from file, environment variables and
// defaults, in that order of precedence.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/vigil/")
	v.AddConfigPath("$HOME/.vigil")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8090")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/vigil_dev")
	v.SetDefault("MONGO_DB_NAME", "vigil_dev")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EVENT_PREFIX", "vigil")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("DEFAULT_CLIENT_NAME", "Unknown Client")
	v.SetDefault("ACCESS_TOKEN_VALIDITY_SECONDS", 7200)
	v.SetDefault("REFRESH_TOKEN_VALIDITY_SECONDS", 14400)
	v.SetDefault("ID_TOKEN_VALIDITY_SECONDS", 14400)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
