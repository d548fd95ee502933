// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take primitives, return domain errors from apperror, and never
// see an *http.Request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

const (
	MsgTitleRequired   = "Title is required"
	MsgContentRequired = "Content is required"
	MsgQueryRequired   = "Search Query is required"
	MsgNoChanges       = "No changes provided"
)

// NoteChanges is a partial edit. Zero values mean "not provided":
// empty Title/Content and nil Tags are left alone. A non-nil empty Tags
// clears the tag list.
//
// IsPinned can only turn pinning ON here. false is indistinguishable from
// "not provided", so unpinning goes through SetPinned.
type NoteChanges struct {
	Title    string
	Content  string
	Tags     []string
	IsPinned bool
}

// empty reports whether none of the fields that count as a change are set.
// IsPinned alone is not a change.
func (c NoteChanges) empty() bool {
	return c.Title == "" && c.Content == "" && c.Tags == nil
}

// NoteService handles business logic for notes. Every operation is scoped
// to the caller's user ID.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		repo:   repo,
		logger: logger,
	}
}

// Add creates a note owned by ownerID. New notes are unpinned; nil tags
// become an empty list.
func (s *NoteService) Add(ctx context.Context, ownerID, title, content string, tags []string) (*model.Note, error) {
	if title == "" {
		return nil, apperror.ValidationFailed("title", MsgTitleRequired)
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", MsgContentRequired)
	}
	if tags == nil {
		tags = []string{}
	}

	note := &model.Note{
		Title:   title,
		Content: content,
		Tags:    tags,
		UserID:  ownerID,
	}

	if err := s.repo.CreateNote(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/notes: creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("userID", ownerID),
	)

	return note, nil
}

// Edit applies the provided fields to the caller's note.
//
// STRATEGY: fetch, apply, save. The read and the write are separate
// statements with no lock between them, so concurrent edits are
// last-writer-wins.
func (s *NoteService) Edit(ctx context.Context, ownerID, noteID string, changes NoteChanges) (*model.Note, error) {
	if changes.empty() {
		return nil, apperror.ValidationFailed("", MsgNoChanges)
	}

	note, err := s.repo.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	if changes.Title != "" {
		note.Title = changes.Title
	}
	if changes.Content != "" {
		note.Content = changes.Content
	}
	if changes.Tags != nil {
		note.Tags = changes.Tags
	}
	if changes.IsPinned {
		note.IsPinned = true
	}

	if err := s.save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note updated", slog.String("id", note.ID))
	return note, nil
}

// List returns the caller's notes, pinned first.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	notes, err := s.repo.ListNotes(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list notes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/notes: listing notes: %w", err)
	}
	return notes, nil
}

// Delete removes the caller's note. The note is looked up first so that a
// missing or foreign note reports NotFound before any write is attempted.
func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if _, err := s.repo.GetNote(ctx, noteID, ownerID); err != nil {
		return err
	}

	if err := s.repo.DeleteNote(ctx, noteID, ownerID); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to delete note",
				slog.String("id", noteID),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("service/notes: deleting note: %w", err)
	}

	s.logger.Info("note deleted", slog.String("id", noteID))
	return nil
}

// SetPinned sets the pinned flag to exactly pinned. Calling it twice with
// the same value leaves the same stored state.
func (s *NoteService) SetPinned(ctx context.Context, ownerID, noteID string, pinned bool) (*model.Note, error) {
	note, err := s.repo.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	note.IsPinned = pinned
	if err := s.save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note pin updated",
		slog.String("id", note.ID),
		slog.Bool("pinned", pinned),
	)
	return note, nil
}

// Search returns the caller's notes whose title or content contains query,
// ignoring case.
func (s *NoteService) Search(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	if query == "" {
		return nil, apperror.ValidationFailed("query", MsgQueryRequired)
	}

	notes, err := s.repo.SearchNotes(ctx, ownerID, query)
	if err != nil {
		s.logger.Error("failed to search notes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/notes: searching notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) save(ctx context.Context, note *model.Note) error {
	if err := s.repo.UpdateNote(ctx, note); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to update note",
				slog.String("id", note.ID),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("service/notes: saving note: %w", err)
	}
	return nil
}
