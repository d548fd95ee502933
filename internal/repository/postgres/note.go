package postgres

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

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) CreateNote(ctx context.Context, note *model.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	tags, err := repository.EncodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("postgres: creating note: %w", err)
	}

	note.ID = xid.New().String()
	note.CreatedOn = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)`,
		note.ID, note.Title, note.Content, tags, note.IsPinned, note.UserID, note.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating note: %w", err)
	}
	return nil
}

func (db *DB) GetNote(ctx context.Context, id, ownerID string) (*model.Note, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Note")
		}
		return nil, fmt.Errorf("postgres: getting note %s: %w", id, err)
	}
	return note, nil
}

func (db *DB) UpdateNote(ctx context.Context, note *model.Note) error {
	tags, err := repository.EncodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("postgres: updating note %s: %w", note.ID, err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET title = $1, content = $2, tags = $3::jsonb, is_pinned = $4
		 WHERE id = $5 AND user_id = $6`,
		note.Title, note.Content, tags, note.IsPinned, note.ID, note.UserID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating note %s: %w", note.ID, err)
	}
	return notFoundIfNoRows(result, note.ID)
}

func (db *DB) DeleteNote(ctx context.Context, id, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting note %s: %w", id, err)
	}
	return notFoundIfNoRows(result, id)
}

func (db *DB) ListNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE user_id = $1
		 ORDER BY is_pinned DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing notes: %w", err)
	}
	return collectNotes(rows)
}

// SearchNotes uses ILIKE, which folds case for non-ASCII letters too.
func (db *DB) SearchNotes(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE user_id = $1
		   AND (title ILIKE $2 ESCAPE '\' OR content ILIKE $2 ESCAPE '\')`,
		ownerID, repository.LikePattern(query),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: searching notes: %w", err)
	}
	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]model.Note, error) {
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning note row: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating notes: %w", err)
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
		return fmt.Errorf("postgres: checking rows affected for note %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("Note")
	}
	return nil
}
