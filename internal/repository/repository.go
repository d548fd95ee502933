// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in the sqlite and postgres subpackages.
//
// Lookups that find nothing return an error wrapping apperror.ErrNotFound.
package repository

import (
	"context"

	"github.com/sakif/notekeeper/internal/model"
)

// UserRepository persists accounts.
//
// Email uniqueness is NOT enforced by the store: registration checks
// GetUserByEmail first and then calls CreateUser, so two concurrent
// registrations with the same email can both succeed.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// NoteRepository persists notes. Every method that addresses a single note
// takes the owner's ID and filters on it, so a note owned by someone else is
// indistinguishable from a missing one.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, id, ownerID string) (*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id, ownerID string) error
	// ListNotes returns the owner's notes, pinned first. The order among
	// notes with the same pinned flag is whatever the store returns.
	ListNotes(ctx context.Context, ownerID string) ([]model.Note, error)
	// SearchNotes returns the owner's notes whose title or content contains
	// query, compared case-insensitively.
	SearchNotes(ctx context.Context, ownerID, query string) ([]model.Note, error)
}

// Store is a full backend: both repositories plus lifecycle.
type Store interface {
	UserRepository
	NoteRepository
	Close() error
}
