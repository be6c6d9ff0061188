package conversation

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

type fakeAccounts struct {
	mu       sync.Mutex
	byName   map[string]*models.Account
	nextID   int64
	loginErr error
	regErr   error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byName: map[string]*models.Account{}}
}

func (f *fakeAccounts) Register(_ context.Context, username, password string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.regErr != nil {
		return nil, f.regErr
	}
	if username == "" || password == "" {
		return nil, common.ErrMalformedInput
	}
	if _, ok := f.byName[username]; ok {
		return nil, common.ErrDuplicateUsername
	}
	f.nextID++
	a := &models.Account{ID: f.nextID, Username: username, PasswordHash: password}
	f.byName[username] = a
	return a, nil
}

func (f *fakeAccounts) Login(_ context.Context, username, password string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	a, ok := f.byName[username]
	if !ok || a.PasswordHash != password {
		return nil, common.ErrInvalidCredentials
	}
	return a, nil
}

func (f *fakeAccounts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName)
}

type fakeNotes struct {
	mu     sync.Mutex
	byID   map[int64]models.Note
	nextID int64
	err    error

	// addGate, when set, blocks Add until it is closed.
	addGate    chan struct{}
	// addStarted is signalled when Add begins.
	addStarted chan struct{}
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{byID: map[int64]models.Note{}}
}

func (f *fakeNotes) List(_ context.Context, ownerID int64) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Note{}
	for _, n := range f.byID {
		if n.UserID == ownerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNotes) Add(_ context.Context, ownerID int64, text string) (*models.Note, error) {
	if f.addStarted != nil {
		f.addStarted <- struct{}{}
	}
	if f.addGate != nil {
		<-f.addGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if text == "" {
		return nil, common.ErrMalformedInput
	}
	f.nextID++
	n := models.Note{ID: f.nextID, UserID: ownerID, Text: text}
	f.byID[n.ID] = n
	return &n, nil
}

func (f *fakeNotes) Get(_ context.Context, ownerID, id int64) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	return &n, nil
}

func (f *fakeNotes) Edit(_ context.Context, ownerID, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if text == "" {
		return common.ErrMalformedInput
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return common.ErrorNotFound
	}
	n.Text = text
	f.byID[id] = n
	return nil
}

func (f *fakeNotes) Delete(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}
