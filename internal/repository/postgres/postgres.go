// Package postgres implements the repository interfaces on PostgreSQL,
// using database/sql with the pgx stdlib driver. The schema is managed by
// goose migrations embedded in the binary and applied on startup.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/repository/postgres/migrations"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

// New connects to dsn and brings the schema up to date.
func New(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.RunMigrations(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies every pending migration from the embedded FS.
func (db *DB) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db.conn, ".")
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
