// Package services contains the business logic behind the chat actions:
// registration and login against the credential store, and owner-scoped
// note management. Every error returned here matches one of the sentinels
// in package common.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
)

// PasswordHasher turns a plaintext password into the digest kept in the
// accounts table. See cryptox.PasswordHasher.
type PasswordHasher interface {
	Hash(plaintext []byte) string
	Verify(plaintext []byte, digest string) bool
}

// AccountService provides authentication-related operations:
// - Register: create accounts
// - Login: verify credentials
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

// NewAccountService constructs an AccountService using repositories and a hasher.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher) *AccountService {
	return &AccountService{db: db, repomanager: m, hasher: h}
}

// Register creates an account for username with the digest of password.
// It fails with common.ErrMalformedInput, common.ErrDuplicateUsername or
// common.ErrorInternal.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	plain := []byte(password)
	defer common.WipeByteArray(plain)

	account := &models.Account{Username: username, PasswordHash: s.hasher.Hash(plain)}

	repo := s.repomanager.Accounts(s.db)
	a, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: error creating account: %v", common.ErrorInternal, err)
	}
	return a, nil
}

// Login returns the account whose username and password match. An unknown
// username and a wrong password both yield common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	if ValidateUsername(username) != nil || ValidatePassword(password) != nil {
		return nil, common.ErrInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: error searching account: %v", common.ErrorInternal, err)
	}

	plain := []byte(password)
	defer common.WipeByteArray(plain)

	if !s.hasher.Verify(plain, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return account, nil
}
