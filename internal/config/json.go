package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig is the shape of the JSON configuration file. Durations accept
// both strings such as "1m" and integer nanoseconds. Absent or empty values
// leave the current setting alone.
type JsonConfig struct {
	TelegramToken         string         `json:"telegram_token"`
	DatabaseDriver        string         `json:"database_driver"`
	DatabaseDSN           string         `json:"database_dsn"`
	PasswordSalt          string         `json:"password_salt"`
	GatewayAddr           string         `json:"gateway_addr"`
	GatewaySecret         string         `json:"gateway_secret"`
	LogLevel              string         `json:"log_level"`
	PollTimeout           timex.Duration `json:"poll_timeout"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
}

// parseJson overlays the file given with -c or -config, if any.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.TelegramToken, c.TelegramToken)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.PasswordSalt, c.PasswordSalt)
	setString(&config.GatewayAddr, c.GatewayAddr)
	setString(&config.GatewaySecret, c.GatewaySecret)
	setString(&config.LogLevel, c.LogLevel)
	if c.PollTimeout.Duration != 0 {
		config.PollTimeout = c.PollTimeout.Duration
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
