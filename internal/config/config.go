// Package config loads runtime configuration with viper.
//
// Everything can be set through environment variables; an optional config.yaml
// in the working directory (or ./config) overrides nothing that the
// environment already sets. Defaults are good enough for local development
// except JWT_SECRET, which must be provided.
package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	// Server
	ServerAddr string
	LogLevel   string

	// Storage
	DBPath string

	// Bearer-token verification. Issuer and audience must match the values
	// the identity provider stamps into its tokens.
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Requests per caller per minute. 0 disables rate limiting.
	RateLimitPerMinute int
}

// Load reads configuration from the environment (and an optional config file)
// and returns it.
func Load() *Config {
	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DB_PATH", "data/connectly.db")

	viper.SetDefault("JWT_ISSUER", "connectly-idp")
	viper.SetDefault("JWT_AUDIENCE", "connectly-api")

	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	return &Config{
		ServerAddr:         viper.GetString("SERVER_ADDR"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		DBPath:             viper.GetString("DB_PATH"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		JWTAudience:        viper.GetString("JWT_AUDIENCE"),
		RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
	}
}
