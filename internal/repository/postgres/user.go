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
)

func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedOn = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, fullname, email, password, created_on)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.FullName, user.Email, user.Password, user.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting user: %w", err)
	}
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, fullname, email, password, created_on
		 FROM users WHERE email = $1
		 ORDER BY created_on
		 LIMIT 1`,
		email,
	)
	return scanUser(row, email)
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, fullname, email, password, created_on
		 FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row, id)
}

func scanUser(row *sql.Row, key string) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.CreatedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", key, err)
	}
	return &u, nil
}
