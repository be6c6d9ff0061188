package models

import "time"

// Note is a short text owned by exactly one account.
type Note struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
