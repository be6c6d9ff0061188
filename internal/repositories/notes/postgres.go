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

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a note for note.UserID and returns it with the generated
// ID and creation time. Returns an error for DB failures.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	query :=
		`INSERT INTO items (user_id, text)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, note.UserID, note.Text).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// ListByOwner returns all notes of ownerID ordered by id. An owner without
// notes gets an empty, non-nil slice.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error) {

	query :=
		`SELECT id, user_id, text, created_at FROM items
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetByID fetches a single note by id, restricted to ownerID.
// Returns common.ErrorNotFound if no such note belongs to the owner.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Note, error) {

	query :=
		`SELECT id, user_id, text, created_at FROM items
		 WHERE id = $1 AND user_id = $2
		 `

	n := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

// Update sets the text of note id when it belongs to ownerID.
// Returns common.ErrorNotFound when no row matched.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id int64, text string) error {

	query := `UPDATE items SET text = $1 WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, text, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

// Delete removes note id when it belongs to ownerID.
// Returns common.ErrorNotFound when no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {

	query := `DELETE FROM items WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

// expectOneRow maps "nothing matched" to common.ErrorNotFound.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
