package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/filex"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/accounts"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/notes"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// RepositoryManager vends the repositories of one SQL dialect. Passing a
// *sql.Tx as the DBTX makes the returned repositories part of that
// transaction.
type RepositoryManager interface {
	// RunMigrations applies the dialect's embedded migrations to db.
	RunMigrations(context.Context, *sql.DB) error
	// Accounts returns an accounts.Repository bound to db.
	Accounts(db dbx.DBTX) accounts.Repository
	// Notes returns a notes.Repository bound to db.
	Notes(db dbx.DBTX) notes.Repository
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// Open connects to the database named by driver and dsn, applies pending
// migrations and returns the pool together with the matching manager.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var m RepositoryManager
	switch driver {
	case DriverPostgres:
		m = NewPostgresRepositoryManager()
	case DriverSQLite:
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, nil, fmt.Errorf("db dir error: %w", err)
		}
		m = NewSQLiteRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if driver == DriverSQLite {
		// one writer avoids "database is locked" under concurrent chats
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}
