// Package telegram connects the conversation engine to the Telegram Bot
// API using long polling. Each chat is served by one worker at a time that
// handles its messages in arrival order; different chats run in parallel.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/gophnotes/internal/conversation"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// DefaultPollTimeout is the long polling timeout used when none is given.
const DefaultPollTimeout = 60 * time.Second

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	StopReceivingUpdates()
}

// Engine is the conversation engine as seen by the transport.
type Engine interface {
	HandleInput(ctx context.Context, chatID int64, text string) (replies []conversation.Reply, wasSecret bool)
}

type Bot struct {
	api         botAPI
	engine      Engine
	logger      logging.Logger
	pollTimeout int // seconds
	queues      *chatQueues
	wg          sync.WaitGroup
}

// newBotAPI is a seam for tests.
var newBotAPI = func(token string) (botAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// NewBot authorizes with token and returns a bot ready to Run.
func NewBot(token string, pollTimeout time.Duration, e Engine, l logging.Logger) (*Bot, error) {
	api, err := newBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization failed: %w", err)
	}
	b := newBot(api, e, l)
	if pollTimeout > 0 {
		b.pollTimeout = int(pollTimeout.Seconds())
	}
	return b, nil
}

func newBot(api botAPI, e Engine, l logging.Logger) *Bot {
	return &Bot{
		api:         api,
		engine:      e,
		logger:      l.With("module", "telegram"),
		pollTimeout: int(DefaultPollTimeout.Seconds()),
		queues:      newChatQueues(),
	}
}

// Run polls for updates until ctx is done and waits for in-flight updates
// before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info(ctx, "Starting Telegram polling")

	// in-flight updates finish even when ctx is cancelled
	handleCtx := context.WithoutCancel(ctx)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info(ctx, "Stopping Telegram polling...")
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(handleCtx, upd)
		}
	}
}

// dispatch queues upd behind earlier updates of the same chat and starts a
// worker for the chat if none is running.
func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if !b.queues.push(chatID, upd) {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			next, ok := b.queues.next(chatID)
			if !ok {
				return
			}
			b.handleUpdate(ctx, next)
		}
	}()
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	log := b.logger.With("chat_id", chatID, "update_id", upd.UpdateID)

	replies, secret := b.engine.HandleInput(ctx, chatID, msg.Text)

	for _, r := range replies {
		if _, err := b.api.Send(render(chatID, r)); err != nil {
			log.Error(ctx, "send failed", "error", err)
		}
	}

	// passwords should not stay in the chat history
	if secret {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
			log.Warn(ctx, "could not delete password message", "error", err)
		}
	}
}

func render(chatID int64, r conversation.Reply) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(chatID, r.Text)
	if r.Menu != nil {
		m.ReplyMarkup = keyboard(r.Menu)
	}
	return m
}

func keyboard(menu conversation.Menu) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	k := tgbotapi.NewReplyKeyboard(rows...)
	k.ResizeKeyboard = true
	return k
}
