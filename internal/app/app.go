// Package app wires the store, the conversation engine and the transports
// together and runs the transports until a signal arrives or one of them
// fails.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/conversation"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/gateway"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/services"
	"github.com/dmitrijs2005/gophnotes/internal/sessions"
	"github.com/dmitrijs2005/gophnotes/internal/telegram"
)

// ErrNothingToRun is returned by Run when neither transport is configured.
var ErrNothingToRun = errors.New("nothing to run: set a Telegram token or a gateway address")

type runner interface {
	Run(ctx context.Context) error
}

// Seams for tests.
var (
	openStore     = repomanager.Open
	hasherParams  = cryptox.DefaultParams
	newTelegramFn = func(token string, poll time.Duration, e telegram.Engine, l logging.Logger) (runner, error) {
		return telegram.NewBot(token, poll, e, l)
	}
)

// Transport names. Each transport gets its own engine, so a chat id
// arriving through one transport never reaches a session or a pending
// step opened through another.
const (
	TransportTelegram = "telegram"
	TransportGateway  = "gateway"
	TransportConsole  = "console"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	notes    *services.NoteService

	mu      sync.Mutex
	engines map[string]*conversation.Engine
}

// NewApp opens and migrates the store and builds the engine. Logs go to
// logOut as JSON.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	db, rm, err := openStore(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := cryptox.NewPasswordHasher([]byte(c.PasswordSalt), hasherParams)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		accounts: services.NewAccountService(db, rm, hasher),
		notes:    services.NewNoteService(db, rm),
		engines:  make(map[string]*conversation.Engine),
	}, nil
}

// Engine returns the conversation engine of transport, creating it on first
// use. Engines share the store but keep their own sessions and pending
// steps.
func (app *App) Engine(transport string) *conversation.Engine {
	app.mu.Lock()
	defer app.mu.Unlock()

	e, ok := app.engines[transport]
	if !ok {
		e = conversation.NewEngine(app.accounts, app.notes, sessions.NewMemoryRegistry(),
			app.logger.With("transport", transport))
		app.engines[transport] = e
	}
	return e
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts every configured transport and blocks until ctx is done, a
// signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) error {
	var runners []runner

	if app.config.TelegramToken != "" {
		bot, err := newTelegramFn(app.config.TelegramToken, app.config.PollTimeout, app.Engine(TransportTelegram), app.logger)
		if err != nil {
			return err
		}
		runners = append(runners, bot)
	}

	if app.config.GatewayAddr != "" {
		runners = append(runners, gateway.NewGRPCServer(app.config.GatewayAddr, app.logger, app.Engine(TransportGateway), app.config.GatewaySecret))
	}

	if len(runners) == 0 {
		return ErrNothingToRun
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		r := r
		g.Go(func() error { return r.Run(ctx) })
	}

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
