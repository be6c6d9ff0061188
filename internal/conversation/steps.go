package conversation

import "sync"

// Step is the continuation a chat is waiting on: which question was asked
// last and what has been collected so far. The set of steps is closed.
type Step interface {
	step()
}

type awaitLoginUsername struct{}

type awaitLoginPassword struct {
	username string
}

type awaitRegisterUsername struct{}

type awaitRegisterPassword struct {
	username string
}

// Note steps carry the owner captured when the menu button was pressed.
type awaitNoteText struct {
	ownerID int64
}

type awaitEditNoteID struct {
	ownerID int64
}

type awaitEditNoteText struct {
	ownerID int64
	noteID  int64
}

type awaitDeleteNoteID struct {
	ownerID int64
}

func (awaitLoginUsername) step()    {}
func (awaitLoginPassword) step()    {}
func (awaitRegisterUsername) step() {}
func (awaitRegisterPassword) step() {}
func (awaitNoteText) step()         {}
func (awaitEditNoteID) step()       {}
func (awaitEditNoteText) step()     {}
func (awaitDeleteNoteID) step()     {}

// secret reports whether the answer to s is a password.
func secret(s Step) bool {
	switch s.(type) {
	case awaitLoginPassword, awaitRegisterPassword:
		return true
	}
	return false
}

// pendingTable holds at most one Step per chat.
type pendingTable struct {
	mu    sync.Mutex
	steps map[int64]Step
}

func newPendingTable() *pendingTable {
	return &pendingTable{steps: make(map[int64]Step)}
}

// put replaces any step already registered for chatID.
func (t *pendingTable) put(chatID int64, s Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps[chatID] = s
}

// take removes and returns the step registered for chatID.
func (t *pendingTable) take(chatID int64) (Step, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.steps[chatID]
	if ok {
		delete(t.steps, chatID)
	}
	return s, ok
}

func (t *pendingTable) peek(chatID int64) (Step, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.steps[chatID]
	return s, ok
}
