package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatQueues keeps the backlog of updates per chat. A chat has an entry
// exactly while a worker is draining it, so every chat is served by at most
// one goroutine and its updates are handled in arrival order.
type chatQueues struct {
	mu      sync.Mutex
	backlog map[int64][]tgbotapi.Update
}

func newChatQueues() *chatQueues {
	return &chatQueues{backlog: make(map[int64][]tgbotapi.Update)}
}

// push appends upd to the chat's backlog. It returns true when the chat had
// no worker and the caller must start one.
func (q *chatQueues) push(chatID int64, upd tgbotapi.Update) (startWorker bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, running := q.backlog[chatID]
	q.backlog[chatID] = append(pending, upd)
	return !running
}

// next pops the oldest update of the chat. When the backlog is empty the
// chat is forgotten and the worker must exit.
func (q *chatQueues) next(chatID int64) (tgbotapi.Update, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.backlog[chatID]
	if len(pending) == 0 {
		delete(q.backlog, chatID)
		return tgbotapi.Update{}, false
	}

	upd := pending[0]
	pending[0] = tgbotapi.Update{}
	q.backlog[chatID] = pending[1:]
	return upd, true
}

func (q *chatQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}
