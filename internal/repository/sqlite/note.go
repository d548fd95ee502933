package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

const noteColumns = `id, title, content, tags, is_pinned, user_id, created_on`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateNote inserts a note owned by note.UserID and fills in its ID and
// CreatedOn. A nil Tags slice is stored and returned as an empty list.
func (db *DB) CreateNote(ctx context.Context, note *model.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	tags, err := repository.EncodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	note.ID = xid.New().String()
	note.CreatedOn = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Content,
		tags,
		note.IsPinned,
		note.UserID,
		note.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// GetNote returns the note with id if and only if it belongs to ownerID.
func (db *DB) GetNote(ctx context.Context, id, ownerID string) (*model.Note, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Note")
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}
	return note, nil
}

// UpdateNote writes title, content, tags and pinned flag back. Owner and
// creation time are immutable and only used in the WHERE clause.
func (db *DB) UpdateNote(ctx context.Context, note *model.Note) error {
	tags, err := repository.EncodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET title = ?, content = ?, tags = ?, is_pinned = ?
		 WHERE id = ? AND user_id = ?`,
		note.Title,
		note.Content,
		tags,
		note.IsPinned,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	return notFoundIfNoRows(result, note.ID)
}

// DeleteNote removes the note with id if it belongs to ownerID.
func (db *DB) DeleteNote(ctx context.Context, id, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	return notFoundIfNoRows(result, id)
}

// ListNotes returns all of ownerID's notes, pinned ones first.
// No secondary ordering is applied.
func (db *DB) ListNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE user_id = ?
		 ORDER BY is_pinned DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	return collectNotes(rows)
}

// SearchNotes matches query as a literal substring of title or content,
// ignoring case for any Unicode letter (see contains_fold).
func (db *DB) SearchNotes(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE user_id = ?
		   AND (`+containsFoldFunc+`(title, ?) OR `+containsFoldFunc+`(content, ?))`,
		ownerID, query, query,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching notes: %w", err)
	}
	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]model.Note, error) {
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

func scanNote(s rowScanner) (*model.Note, error) {
	var (
		n    model.Note
		tags []byte
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &tags, &n.IsPinned, &n.UserID, &n.CreatedOn); err != nil {
		return nil, err
	}

	decoded, err := repository.DecodeTags(tags)
	if err != nil {
		return nil, err
	}
	n.Tags = decoded

	return &n, nil
}

func notFoundIfNoRows(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected for note %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("Note")
	}
	return nil
}
