// Package models defines the data persisted by the credential store.
package models

import "time"

// Account is a registered user. PasswordHash holds the hex digest produced
// by the password hasher, never the plaintext.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
