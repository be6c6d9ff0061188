package config

import (
	"fmt"
	"time"
)

// Environment variables, applied over the JSON file.
const (
	EnvTelegramToken  = "TOKEN"
	EnvDatabaseDriver = "DATABASE_DRIVER"
	EnvDatabaseDSN    = "DATABASE_DSN"
	EnvPasswordSalt   = "PASSWORD_SALT"
	EnvGatewayAddr    = "GATEWAY_ADDR"
	EnvGatewaySecret  = "GATEWAY_SECRET"
	EnvLogLevel       = "LOG_LEVEL"
	EnvPollTimeout    = "POLL_TIMEOUT"
)

func parseEnv(config *Config, lookupEnv func(string) (string, bool)) error {
	for name, dst := range map[string]*string{
		EnvTelegramToken:  &config.TelegramToken,
		EnvDatabaseDriver: &config.DatabaseDriver,
		EnvDatabaseDSN:    &config.DatabaseDSN,
		EnvPasswordSalt:   &config.PasswordSalt,
		EnvGatewayAddr:    &config.GatewayAddr,
		EnvGatewaySecret:  &config.GatewaySecret,
		EnvLogLevel:       &config.LogLevel,
	} {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := lookupEnv(EnvPollTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s has invalid duration %q: %w", EnvPollTimeout, v, err)
		}
		config.PollTimeout = d
	}
	return nil
}
