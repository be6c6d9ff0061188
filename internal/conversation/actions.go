package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/services"
)

// MaxMessageLength is the longest text, in UTF-16 code units, sent in one
// reply. Telegram measures message length the same way.
const MaxMessageLength = 4096

type audience int

const (
	anyone audience = iota
	guests
	members
)

type action struct {
	audience audience
	run      func(ctx context.Context, log logging.Logger, chatID, accountID int64) []Reply
}

func (e *Engine) actionTable() map[string]action {
	return map[string]action{
		CommandStart:    {anyone, e.start},
		LabelLogin:      {guests, e.startLogin},
		LabelRegister:   {guests, e.startRegister},
		LabelListNotes:  {members, e.listNotes},
		LabelAddNote:    {members, e.startAddNote},
		LabelEditNote:   {members, e.startEditNote},
		LabelDeleteNote: {members, e.startDeleteNote},
		LabelLogout:     {anyone, e.logout},
	}
}

func (e *Engine) start(_ context.Context, _ logging.Logger, chatID, _ int64) []Reply {
	_, ok := e.sessions.Get(chatID)
	return []Reply{{Text: msgWelcome, Menu: menuFor(ok)}}
}

// --- authentication ---

func (e *Engine) startLogin(_ context.Context, _ logging.Logger, chatID, _ int64) []Reply {
	return e.ask(chatID, awaitLoginUsername{}, msgAskLoginUsername)
}

func (e *Engine) finishLogin(ctx context.Context, log logging.Logger, chatID int64, username, password string) []Reply {
	account, err := e.accounts.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			log.Info(ctx, "login rejected")
			return []Reply{{Text: msgBadCredentials, Menu: EntryMenu()}}
		}
		log.Error(ctx, "login failed", "error", err)
		return []Reply{{Text: msgLoginFailed, Menu: EntryMenu()}}
	}

	e.sessions.Set(chatID, account.ID)
	log.Info(ctx, "logged in", "account_id", account.ID)
	return []Reply{{Text: msgLoggedIn}, {Text: msgMainMenu, Menu: MainMenu()}}
}

func (e *Engine) startRegister(_ context.Context, _ logging.Logger, chatID, _ int64) []Reply {
	return e.ask(chatID, awaitRegisterUsername{}, msgAskRegisterUsername)
}

func (e *Engine) finishRegister(ctx context.Context, log logging.Logger, chatID int64, username, password string) []Reply {
	account, err := e.accounts.Register(ctx, username, password)
	if err != nil {
		var text string
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			log.Info(ctx, "username taken")
			text = msgUsernameTaken
		case errors.Is(err, common.ErrMalformedInput):
			log.Info(ctx, "registration input rejected", "error", err)
			text = msgBadPassword
			if services.ValidateUsername(username) != nil {
				text = msgBadUsername
			}
		default:
			log.Error(ctx, "registration failed", "error", err)
			text = msgRegisterFailed
		}
		return []Reply{{Text: text, Menu: EntryMenu()}}
	}

	e.sessions.Set(chatID, account.ID)
	log.Info(ctx, "registered", "account_id", account.ID)
	return []Reply{{Text: msgRegistered}, {Text: msgMainMenu, Menu: MainMenu()}}
}

func (e *Engine) logout(ctx context.Context, log logging.Logger, chatID, _ int64) []Reply {
	e.sessions.Clear(chatID)
	log.Info(ctx, "logged out")
	return []Reply{{Text: msgLoggedOut}, {Text: msgWelcome, Menu: EntryMenu()}}
}

// --- notes ---

func (e *Engine) listNotes(ctx context.Context, log logging.Logger, _, accountID int64) []Reply {
	notes, err := e.notes.List(ctx, accountID)
	if err != nil {
		log.Error(ctx, "listing notes failed", "error", err)
		return []Reply{{Text: msgListFailed}}
	}
	if len(notes) == 0 {
		return []Reply{{Text: msgNoNotes}}
	}

	var replies []Reply
	for _, chunk := range renderNotes(notes, MaxMessageLength) {
		replies = append(replies, Reply{Text: chunk})
	}
	return replies
}

// renderNotes formats notes as "<id>.\t<text>" blocks under a header and
// packs them into messages of at most limit UTF-16 code units, the unit
// Telegram counts message length in. A block never straddles two messages
// unless it is longer than limit on its own.
func renderNotes(notes []models.Note, limit int) []string {
	var (
		out    []string
		b      strings.Builder
		n      int
		blocks int
	)
	flush := func() {
		if m := strings.TrimRight(b.String(), "\n"); m != "" {
			out = append(out, m)
		}
		b.Reset()
		n, blocks = 0, 0
	}
	add := func(r []rune) {
		b.WriteString(string(r))
		n += utf16Len(r)
	}

	add([]rune(msgNotesHeader))
	for _, note := range notes {
		r := []rune(fmt.Sprintf("%d.\t%s\n\n", note.ID, note.Text))
		size := utf16Len(r)
		if blocks > 0 && n+size > limit {
			flush()
		}
		for n+size > limit {
			k := fitUTF16(r, limit-n)
			if k == 0 && n == 0 {
				k = 1
			}
			add(r[:k])
			flush()
			r = r[k:]
			size = utf16Len(r)
		}
		add(r)
		blocks++
	}
	flush()
	return out
}

// utf16Len is the length of r in UTF-16 code units.
func utf16Len(r []rune) int {
	n := 0
	for _, c := range r {
		n += runeUnits(c)
	}
	return n
}

// fitUTF16 returns how many leading runes of r fit into room code units.
func fitUTF16(r []rune, room int) int {
	used := 0
	for i, c := range r {
		used += runeUnits(c)
		if used > room {
			return i
		}
	}
	return len(r)
}

func runeUnits(c rune) int {
	// invalid runes are sent as U+FFFD
	return len(utf16.Encode([]rune{c}))
}

func (e *Engine) startAddNote(_ context.Context, _ logging.Logger, chatID, accountID int64) []Reply {
	return e.ask(chatID, awaitNoteText{ownerID: accountID}, msgAskNoteText)
}

func (e *Engine) finishAddNote(ctx context.Context, log logging.Logger, ownerID int64, text string) []Reply {
	note, err := e.notes.Add(ctx, ownerID, text)
	if err != nil {
		if errors.Is(err, common.ErrMalformedInput) {
			log.Info(ctx, "note text rejected", "error", err)
			return []Reply{{Text: msgBadNoteText}}
		}
		log.Error(ctx, "adding note failed", "error", err)
		return []Reply{{Text: msgAddFailed}}
	}

	log.Info(ctx, "note added", "note_id", note.ID)
	return []Reply{{Text: msgNoteAdded}}
}

func (e *Engine) startEditNote(_ context.Context, _ logging.Logger, chatID, accountID int64) []Reply {
	return e.ask(chatID, awaitEditNoteID{ownerID: accountID}, msgAskEditID)
}

func (e *Engine) pickNoteToEdit(ctx context.Context, log logging.Logger, chatID, ownerID int64, text string) []Reply {
	id, ok := parseNoteID(text)
	if !ok {
		return []Reply{{Text: msgBadNoteID}}
	}

	note, err := e.notes.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []Reply{{Text: msgNoteNotFound}}
		}
		log.Error(ctx, "fetching note failed", "note_id", id, "error", err)
		return []Reply{{Text: msgEditFailed}}
	}

	current := Reply{Text: fmt.Sprintf("%d.\t%s", note.ID, note.Text)}
	return append([]Reply{current}, e.ask(chatID, awaitEditNoteText{ownerID: ownerID, noteID: note.ID}, msgAskEditText)...)
}

func (e *Engine) finishEditNote(ctx context.Context, log logging.Logger, ownerID, noteID int64, text string) []Reply {
	err := e.notes.Edit(ctx, ownerID, noteID, text)
	switch {
	case err == nil:
		log.Info(ctx, "note updated", "note_id", noteID)
		return []Reply{{Text: msgNoteUpdated}}
	case errors.Is(err, common.ErrMalformedInput):
		return []Reply{{Text: msgBadNoteText}}
	case errors.Is(err, common.ErrorNotFound):
		return []Reply{{Text: msgNoteNotFound}}
	default:
		log.Error(ctx, "updating note failed", "note_id", noteID, "error", err)
		return []Reply{{Text: msgEditFailed}}
	}
}

func (e *Engine) startDeleteNote(_ context.Context, _ logging.Logger, chatID, accountID int64) []Reply {
	return e.ask(chatID, awaitDeleteNoteID{ownerID: accountID}, msgAskDeleteID)
}

func (e *Engine) finishDeleteNote(ctx context.Context, log logging.Logger, ownerID int64, text string) []Reply {
	id, ok := parseNoteID(text)
	if !ok {
		return []Reply{{Text: msgBadNoteID}}
	}

	err := e.notes.Delete(ctx, ownerID, id)
	switch {
	case err == nil:
		log.Info(ctx, "note deleted", "note_id", id)
		return []Reply{{Text: msgNoteDeleted}}
	case errors.Is(err, common.ErrorNotFound):
		return []Reply{{Text: msgNoteNotFound}}
	default:
		log.Error(ctx, "deleting note failed", "note_id", id, "error", err)
		return []Reply{{Text: msgDeleteFailed}}
	}
}

// parseNoteID accepts a positive decimal id, optionally written the way
// the list shows it ("12.").
func parseNoteID(text string) (int64, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(text), ".")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
