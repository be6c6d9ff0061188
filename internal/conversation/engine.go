// Package conversation implements the chat state machine. Each inbound
// message is either consumed by the step the chat is waiting on, or matched
// against the menu of the chat's current state and dispatched to an action
// that may register a new step.
package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/sessions"
)

// Reply is one outgoing message.
type Reply struct {
	Text string
	// Menu replaces the keyboard shown to the user; nil keeps the current one.
	Menu Menu
	// Awaiting is set on a question: the next message of the chat is taken
	// as its answer, whatever the text.
	Awaiting bool
	// Secret is set when the next message is expected to be a password.
	Secret bool
}

// Accounts is the part of services.AccountService the engine needs.
type Accounts interface {
	Register(ctx context.Context, username, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
}

// Notes is the part of services.NoteService the engine needs.
type Notes interface {
	List(ctx context.Context, ownerID int64) ([]models.Note, error)
	Add(ctx context.Context, ownerID int64, text string) (*models.Note, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Note, error)
	Edit(ctx context.Context, ownerID, id int64, text string) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type Engine struct {
	accounts Accounts
	notes    Notes
	sessions sessions.Registry
	pending  *pendingTable
	locks    *keyedMutex
	actions  map[string]action
	log      logging.Logger
}

func NewEngine(a Accounts, n Notes, r sessions.Registry, log logging.Logger) *Engine {
	e := &Engine{
		accounts: a,
		notes:    n,
		sessions: r,
		pending:  newPendingTable(),
		locks:    newKeyedMutex(),
		log:      log.With("module", "conversation"),
	}
	e.actions = e.actionTable()
	return e
}

// Handle processes one message of chatID and returns the replies to send,
// in order. Messages of the same chat are handled one at a time; different
// chats proceed in parallel. Handle never fails: errors are logged and
// turned into user-facing replies.
func (e *Engine) Handle(ctx context.Context, chatID int64, text string) []Reply {
	replies, _ := e.HandleInput(ctx, chatID, text)
	return replies
}

// HandleInput is Handle that also reports whether text answered a password
// prompt. The flag is decided under the chat lock, so it always matches the
// step that consumed text.
func (e *Engine) HandleInput(ctx context.Context, chatID int64, text string) (replies []Reply, wasSecret bool) {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	log := e.log.With("chat_id", chatID, "event_id", uuid.NewString())

	if s, ok := e.pending.take(chatID); ok {
		log.Debug(ctx, "continuing dialog", "step", fmt.Sprintf("%T", s))
		return e.continueStep(ctx, log, chatID, s, text), secret(s)
	}

	return e.dispatch(ctx, log, chatID, text), false
}

// dispatch runs the menu action named by text for a chat with no pending
// step.
func (e *Engine) dispatch(ctx context.Context, log logging.Logger, chatID int64, text string) []Reply {
	accountID, authenticated := e.sessions.Get(chatID)

	a, ok := e.actions[text]
	if !ok {
		log.Debug(ctx, "no handler for message")
		return nil
	}

	switch a.audience {
	case guests:
		if authenticated {
			log.Debug(ctx, "entry action ignored for logged in chat", "action", text)
			return nil
		}
	case members:
		if !authenticated {
			log.Info(ctx, "action requires login", "action", text)
			return []Reply{{Text: msgNotAuthenticated, Menu: EntryMenu()}}
		}
	}

	log.Debug(ctx, "dispatching action", "action", text)
	return a.run(ctx, log, chatID, accountID)
}

// Pending reports whether chatID has an unanswered question, and whether
// the answer is a password.
func (e *Engine) Pending(chatID int64) (waiting, secretAnswer bool) {
	s, ok := e.pending.peek(chatID)
	if !ok {
		return false, false
	}
	return true, secret(s)
}

// ask registers s for chatID and returns the matching prompt.
func (e *Engine) ask(chatID int64, s Step, prompt string) []Reply {
	e.pending.put(chatID, s)
	return []Reply{{Text: prompt, Awaiting: true, Secret: secret(s)}}
}

func (e *Engine) continueStep(ctx context.Context, log logging.Logger, chatID int64, s Step, text string) []Reply {
	switch s := s.(type) {
	case awaitLoginUsername:
		return e.ask(chatID, awaitLoginPassword{username: text}, msgAskLoginPassword)
	case awaitLoginPassword:
		return e.finishLogin(ctx, log, chatID, s.username, text)
	case awaitRegisterUsername:
		return e.ask(chatID, awaitRegisterPassword{username: text}, msgAskRegisterPassword)
	case awaitRegisterPassword:
		return e.finishRegister(ctx, log, chatID, s.username, text)
	case awaitNoteText:
		return e.finishAddNote(ctx, log, s.ownerID, text)
	case awaitEditNoteID:
		return e.pickNoteToEdit(ctx, log, chatID, s.ownerID, text)
	case awaitEditNoteText:
		return e.finishEditNote(ctx, log, s.ownerID, s.noteID, text)
	case awaitDeleteNoteID:
		return e.finishDeleteNote(ctx, log, s.ownerID, text)
	default:
		log.Error(ctx, "unknown dialog step", "step", fmt.Sprintf("%T", s))
		return nil
	}
}
