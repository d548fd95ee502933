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
)

// CreateUser inserts a new account and fills in its ID and CreatedOn.
// The caller is expected to have checked the email is free.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedOn = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, fullname, email, password, created_on)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.FullName,
		user.Email,
		user.Password,
		user.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetUserByEmail returns the first account registered with email.
// Returns apperror.ErrNotFound if there is none.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, fullname, email, password, created_on
		 FROM users WHERE email = ?
		 ORDER BY created_on
		 LIMIT 1`,
		email,
	)
	return scanUser(row, email)
}

// GetUserByID retrieves an account by its ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, fullname, email, password, created_on
		 FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row, id)
}

func scanUser(row *sql.Row, key string) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}
	return &u, nil
}
