package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// Flags understood by parseFlags.
var knownFlags = []string{"-t", "-k", "-d", "-s", "-a", "-g", "-l", "-p", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   Telegram bot token
//	-k string   database driver ("sqlite" or "pgx")
//	-d string   database DSN
//	-s string   password salt
//	-a string   gRPC gateway address (e.g., ":50052")
//	-g string   gateway token secret
//	-l string   log level
//	-p int      Telegram polling timeout, seconds
//	-v int      console token validity, minutes
//
// Flags not listed here are left for other readers of the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.TelegramToken, "t", config.TelegramToken, "telegram bot token")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PasswordSalt, "s", config.PasswordSalt, "password salt")
	fs.StringVar(&config.GatewayAddr, "a", config.GatewayAddr, "address and port of the gRPC gateway")
	fs.StringVar(&config.GatewaySecret, "g", config.GatewaySecret, "gateway token secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	pollTimeout := fs.Int("p", int(config.PollTimeout.Seconds()), "telegram polling timeout (in seconds)")
	tokenValidity := fs.Int("v", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only explicit flags override, so sub-unit values from JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			config.PollTimeout = time.Duration(*pollTimeout) * time.Second
		case "v":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	return nil
}
