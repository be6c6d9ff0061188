package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/accounts"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/notes"
)

// --- fakes ---

type fakeHasher struct{}

func (fakeHasher) Hash(p []byte) string { return "h:" + string(p) }
func (fakeHasher) Verify(p []byte, digest string) bool {
	return "h:"+string(p) == digest
}

type fakeAccountsRepo struct {
	mu     sync.Mutex
	byName map[string]*models.Account
	nextID int64

	createErr error
	getErr    error
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{byName: map[string]*models.Account{}}
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[a.Username]; ok {
		return nil, common.ErrDuplicateUsername
	}
	f.nextID++
	c := *a
	c.ID = f.nextID
	f.byName[a.Username] = &c
	return &c, nil
}

func (f *fakeAccountsRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

type fakeNotesRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.Note
	nextID int64

	err error
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{byID: map[int64]*models.Note{}}
}

func (f *fakeNotesRepo) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := *n
	c.ID = f.nextID
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeNotesRepo) ListByOwner(_ context.Context, ownerID int64) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Note
	for _, n := range f.byID {
		if n.UserID == ownerID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNotesRepo) owned(ownerID, id int64) (*models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

func (f *fakeNotesRepo) GetByID(_ context.Context, ownerID, id int64) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	c := *n
	return &c, nil
}

func (f *fakeNotesRepo) Update(_ context.Context, ownerID, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(ownerID, id)
	if err != nil {
		return err
	}
	n.Text = text
	return nil
}

func (f *fakeNotesRepo) Delete(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakeRM struct {
	accounts *fakeAccountsRepo
	notes    *fakeNotesRepo
}

func newFakeRM() *fakeRM {
	return &fakeRM{accounts: newFakeAccountsRepo(), notes: newFakeNotesRepo()}
}

func (f *fakeRM) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRM) Accounts(dbx.DBTX) accounts.Repository { return f.accounts }
func (f *fakeRM) Notes(dbx.DBTX) notes.Repository { return f.notes }
