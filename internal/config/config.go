// Package config handles configuration for the bot and the console,
// including defaults, JSON overlay, environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - TelegramToken: Bot API token; the Telegram transport is off without it.
//   - DatabaseDriver: "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - DatabaseDSN: file path for SQLite, connection URL for PostgreSQL.
//   - PasswordSalt: application-wide salt of the password hasher. Changing
//     it invalidates every stored password.
//   - GatewayAddr: gRPC gateway address; empty disables the gateway.
//   - GatewaySecret: HMAC secret for gateway access tokens (HS256).
//   - LogLevel: debug, info, warn or error.
//   - PollTimeout: Telegram long polling timeout.
//   - TokenValidityDuration: lifetime of tokens minted by the console.
type Config struct {
	TelegramToken         string
	DatabaseDriver        string
	DatabaseDSN           string
	PasswordSalt          string
	GatewayAddr           string
	GatewaySecret         string
	LogLevel              string
	PollTimeout           time.Duration
	TokenValidityDuration time.Duration
}

// DefaultGatewaySecret is the development gateway secret. It is refused
// whenever the gateway is enabled.
const DefaultGatewaySecret = "gatewaySecret"

// LoadDefaults populates Config with development defaults.
// NOTE: the salt and the gateway secret must be overridden in production.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "gophnotes.db"
	c.PasswordSalt = "gophnotes-dev-salt"
	c.GatewaySecret = DefaultGatewaySecret
	c.LogLevel = "info"
	c.PollTimeout = 60 * time.Second
	c.TokenValidityDuration = 24 * time.Hour
}

// LoadConfig builds a Config from defaults, the optional JSON file named by
// -c/-config, the environment and finally the command line.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that make the bot unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "pgx" {
		errs = append(errs, errors.New(`database driver must be "sqlite" or "pgx"`))
	}
	if c.PasswordSalt == "" {
		errs = append(errs, errors.New("password salt is required"))
	}
	if c.GatewayAddr != "" {
		switch c.GatewaySecret {
		case "":
			errs = append(errs, errors.New("gateway secret is required when the gateway is enabled"))
		case DefaultGatewaySecret:
			errs = append(errs, errors.New("gateway secret must be changed from the default when the gateway is enabled"))
		}
	}
	return errors.Join(errs...)
}
