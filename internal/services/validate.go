package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

const (
	MaxUsernameLength = 64   // runes
	MaxPasswordLength = 1024 // bytes
	MaxNoteLength     = 4096 // bytes, the Telegram message limit
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrMalformedInput, fmt.Sprintf(format, args...))
}

// ValidateUsername accepts a non-empty, valid UTF-8 username of at most
// MaxUsernameLength runes without control characters. Quotes and other
// punctuation are allowed: the store binds values, it never splices them.
func ValidateUsername(username string) error {
	if username == "" {
		return malformed("username is required")
	}
	if !utf8.ValidString(username) {
		return malformed("username is not valid UTF-8")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return malformed("username is longer than %d characters", MaxUsernameLength)
	}
	if strings.IndexFunc(username, unicode.IsControl) >= 0 {
		return malformed("username contains control characters")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return malformed("password is required")
	}
	if len(password) > MaxPasswordLength {
		return malformed("password is longer than %d bytes", MaxPasswordLength)
	}
	if strings.IndexByte(password, 0) >= 0 {
		return malformed("password contains NUL")
	}
	return nil
}

// ValidateNoteText accepts any non-blank, valid UTF-8 text up to
// MaxNoteLength bytes. Newlines and tabs are fine; NUL is not, PostgreSQL
// refuses it in text columns.
func ValidateNoteText(text string) error {
	if strings.TrimSpace(text) == "" {
		return malformed("text is required")
	}
	if !utf8.ValidString(text) {
		return malformed("text is not valid UTF-8")
	}
	if len(text) > MaxNoteLength {
		return malformed("text is longer than %d bytes", MaxNoteLength)
	}
	if strings.IndexByte(text, 0) >= 0 {
		return malformed("text contains NUL")
	}
	return nil
}
