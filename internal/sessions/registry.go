// Package sessions keeps track of which chats are logged in and as whom.
// The mapping lives in memory only; a restart logs everybody out.
package sessions

import "sync"

// Registry maps a chat to the authenticated account id.
type Registry interface {
	Get(chatID int64) (accountID int64, ok bool)
	// Set overwrites any previous mapping for chatID.
	Set(chatID, accountID int64)
	// Clear is a no-op for a chat without a session.
	Clear(chatID int64)
}

type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]int64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[int64]int64)}
}

func (r *MemoryRegistry) Get(chatID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.sessions[chatID]
	return id, ok
}

func (r *MemoryRegistry) Set(chatID, accountID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = accountID
}

func (r *MemoryRegistry) Clear(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// Len reports the number of active sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
