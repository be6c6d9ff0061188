package app

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/conversation"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/telegram"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = filepath.Join(t.TempDir(), "app.db")
	return c
}

func fastHasher(t *testing.T) {
	t.Helper()
	orig := hasherParams
	hasherParams = cryptox.Params{Time: 1, Memory: 1024, Threads: 1}
	t.Cleanup(func() { hasherParams = orig })
}

type fakeRunner struct {
	started chan struct{}
	err     error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func stubTelegram(t *testing.T, r runner, gotToken *string) {
	t.Helper()
	orig := newTelegramFn
	t.Cleanup(func() { newTelegramFn = orig })
	newTelegramFn = func(token string, _ time.Duration, _ telegram.Engine, _ logging.Logger) (runner, error) {
		*gotToken = token
		return r, nil
	}
}

func TestNewApp_EngineWorksAgainstSQLite(t *testing.T) {
	fastHasher(t)
	var logs bytes.Buffer

	a, err := NewApp(context.Background(), testConfig(t), &logs)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	e := a.Engine(TransportConsole)
	e.Handle(ctx, 1, conversation.LabelRegister)
	e.Handle(ctx, 1, "alice")
	replies := e.Handle(ctx, 1, "pw")
	require.Len(t, replies, 2)
	assert.Equal(t, conversation.MainMenu(), replies[1].Menu)

	assert.Contains(t, logs.String(), `"module":"conversation"`)
	assert.NotContains(t, logs.String(), `"pw"`)
}

func TestEngine_TransportsDoNotShareChats(t *testing.T) {
	fastHasher(t)
	a, err := NewApp(context.Background(), testConfig(t), &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	const chatID = int64(424242)

	tg := a.Engine(TransportTelegram)
	assert.Same(t, tg, a.Engine(TransportTelegram))

	tg.Handle(ctx, chatID, conversation.LabelRegister)
	tg.Handle(ctx, chatID, "alice")
	tg.Handle(ctx, chatID, "pw")
	tg.Handle(ctx, chatID, conversation.LabelAddNote)
	tg.Handle(ctx, chatID, "telegram only")

	// the same chat id through the gateway is a different, logged out chat
	gw := a.Engine(TransportGateway)
	require.NotSame(t, tg, gw)
	replies := gw.Handle(ctx, chatID, conversation.LabelListNotes)
	require.Len(t, replies, 1)
	assert.Equal(t, conversation.EntryMenu(), replies[0].Menu)
	assert.NotContains(t, replies[0].Text, "telegram only")

	// a step pending on Telegram is not answered by a gateway message
	tg.Handle(ctx, chatID, conversation.LabelAddNote)
	gw.Handle(ctx, chatID, "from gateway")
	waiting, _ := tg.Pending(chatID)
	assert.True(t, waiting)
	tg.Handle(ctx, chatID, "second")

	replies = tg.Handle(ctx, chatID, conversation.LabelListNotes)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "telegram only")
	assert.Contains(t, replies[0].Text, "second")
	assert.NotContains(t, replies[0].Text, "from gateway")
}

func TestNewApp_StoreError(t *testing.T) {
	orig := openStore
	t.Cleanup(func() { openStore = orig })
	openStore = func(context.Context, string, string) (*sql.DB, repomanager.RepositoryManager, error) {
		return nil, nil, errors.New("refused")
	}

	_, err := NewApp(context.Background(), testConfig(t), &bytes.Buffer{})
	assert.ErrorContains(t, err, "refused")
}

func TestRun_NothingConfigured(t *testing.T) {
	fastHasher(t)
	a, err := NewApp(context.Background(), testConfig(t), &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	assert.ErrorIs(t, a.Run(context.Background()), ErrNothingToRun)
}

func TestRun_StopsOnCancel(t *testing.T) {
	fastHasher(t)
	r := &fakeRunner{started: make(chan struct{})}
	var token string
	stubTelegram(t, r, &token)

	c := testConfig(t)
	c.TelegramToken = "123:abc"
	c.GatewayAddr = "127.0.0.1:0"

	a, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	<-r.started
	assert.Equal(t, "123:abc", token)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRun_TransportFailureStopsOthers(t *testing.T) {
	fastHasher(t)
	r := &fakeRunner{started: make(chan struct{}), err: errors.New("polling failed")}
	var token string
	stubTelegram(t, r, &token)

	c := testConfig(t)
	c.TelegramToken = "t"
	c.GatewayAddr = "127.0.0.1:0"

	a, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	assert.ErrorContains(t, a.Run(context.Background()), "polling failed")
}
