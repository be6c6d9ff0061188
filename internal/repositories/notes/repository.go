// Package notes persists notes. Every operation is scoped to the owning
// account: a note that belongs to someone else behaves as if it did not
// exist.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Repository is implemented once per SQL dialect. Missing notes and notes
// of another owner are reported as common.ErrorNotFound.
type Repository interface {
	// Create inserts note and fills in its ID and CreatedAt.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// ListByOwner returns the owner's notes in ascending id order.
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Note, error)
	// GetByID returns the note id if it belongs to ownerID.
	GetByID(ctx context.Context, ownerID, id int64) (*models.Note, error)
	// Update replaces the text of the owner's note id.
	Update(ctx context.Context, ownerID, id int64, text string) error
	// Delete removes the owner's note id.
	Delete(ctx context.Context, ownerID, id int64) error
}
