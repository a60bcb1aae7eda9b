// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

func setup(dialect string) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up applies every pending migration
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Down rolls back the most recent migration
func Down(ctx context.Context, db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return gooseDownContext(ctx, db, ".")
}

// Status logs the applied state of each migration
func Status(ctx context.Context, db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return gooseStatusContext(ctx, db, ".")
}
