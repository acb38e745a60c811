// Package migrations holds the goose migrations of the persisted store table.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

var (
	setupOnce sync.Once
	setupErr  error
)

// ErrNilDB is returned when no connection is given.
var ErrNilDB = errors.New("migration error: db is nil")

// goose keeps its dialect and file system in package globals.
func setup() error {
	setupOnce.Do(func() {
		goose.SetBaseFS(embedMigrations)
		goose.SetLogger(goose.NopLogger())
		setupErr = goose.SetDialect("sqlite3")
	})
	return setupErr
}

// Migrate brings a sqlite database up to the latest store schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return ErrNilDB
	}
	if err := setup(); err != nil {
		return fmt.Errorf("migration error setting dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// Version reports the schema version applied to db.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	if db == nil {
		return 0, ErrNilDB
	}
	if err := setup(); err != nil {
		return 0, fmt.Errorf("migration error setting dialect: %w", err)
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
