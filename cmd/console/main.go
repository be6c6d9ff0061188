// Command console chats with the notes bot from a terminal. With a gateway
// address (-a or GATEWAY_ADDR) it talks to a running bot over gRPC,
// otherwise it opens the store itself.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/app"
	"github.com/dmitrijs2005/gophnotes/internal/auth"
	"github.com/dmitrijs2005/gophnotes/internal/buildinfo"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/console"
	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/gateway"
)

// chatID reads -i, the chat the console speaks for.
func chatID(args []string) int64 {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("i", 1, "chat id")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-i"}))
	return *id
}

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	id := chatID(os.Args[1:])

	var d console.Deliverer
	if cfg.GatewayAddr != "" {
		token, err := auth.GenerateToken(id, []byte(cfg.GatewaySecret), cfg.TokenValidityDuration)
		if err != nil {
			log.Fatalf("token: %v", err)
		}
		c, err := gateway.NewGRPCClient(cfg.GatewayAddr, token)
		if err != nil {
			log.Fatalf("gateway: %v", err)
		}
		defer c.Close()
		d = c
	} else {
		a, err := app.NewApp(ctx, cfg, os.Stderr)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer a.Close()
		d = console.Local(a.Engine(app.TransportConsole))
	}

	if err := console.New(d, id, os.Stdout).Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
