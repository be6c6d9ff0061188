package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// SQLiteRepository implements note storage for the embedded database. It
// shares the query shapes of PostgresRepository with "?" placeholders.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a note for note.UserID and returns it with the generated
// ID and creation time.
func (r *SQLiteRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `INSERT INTO items (user_id, text) VALUES (?, ?) RETURNING id, created_at`

	var createdAt string
	if err := r.db.QueryRowContext(ctx, query, note.UserID, note.Text).Scan(&note.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var err error
	if note.CreatedAt, err = dbx.ParseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return note, nil
}

// ListByOwner returns all notes of ownerID ordered by id.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error) {
	query := `SELECT id, user_id, text, created_at FROM items WHERE user_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetByID fetches note id of ownerID, or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Note, error) {
	query := `SELECT id, user_id, text, created_at FROM items WHERE id = ? AND user_id = ?`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	return n, nil
}

// Update sets the text of the owner's note id, or returns
// common.ErrorNotFound when nothing matched.
func (r *SQLiteRepository) Update(ctx context.Context, ownerID, id int64, text string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE items SET text = ? WHERE id = ? AND user_id = ?`, text, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the owner's note id, or returns common.ErrorNotFound when
// nothing matched.
func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var n models.Note
	var createdAt string

	if err := s.Scan(&n.ID, &n.UserID, &n.Text, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var err error
	if n.CreatedAt, err = dbx.ParseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &n, nil
}
