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

// NoteService manages the notes of one owner at a time. Notes of other
// accounts are reported as common.ErrorNotFound.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// List returns the owner's notes in store order; an owner without notes
// gets an empty, non-nil slice.
func (s *NoteService) List(ctx context.Context, ownerID int64) ([]models.Note, error) {
	notes, err := s.repomanager.Notes(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, internal("error listing notes", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (s *NoteService) Add(ctx context.Context, ownerID int64, text string) (*models.Note, error) {
	if err := ValidateNoteText(text); err != nil {
		return nil, err
	}

	n, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{UserID: ownerID, Text: text})
	if err != nil {
		return nil, internal("error creating note", err)
	}
	return n, nil
}

func (s *NoteService) Get(ctx context.Context, ownerID, id int64) (*models.Note, error) {
	n, err := s.repomanager.Notes(s.db).GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOrInternal("error fetching note", err)
	}
	return n, nil
}

func (s *NoteService) Edit(ctx context.Context, ownerID, id int64, text string) error {
	if err := ValidateNoteText(text); err != nil {
		return err
	}

	if err := s.repomanager.Notes(s.db).Update(ctx, ownerID, id, text); err != nil {
		return notFoundOrInternal("error updating note", err)
	}
	return nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repomanager.Notes(s.db).Delete(ctx, ownerID, id); err != nil {
		return notFoundOrInternal("error deleting note", err)
	}
	return nil
}

func internal(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, msg, err)
}

func notFoundOrInternal(msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internal(msg, err)
}
