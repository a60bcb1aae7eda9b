package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"account-api.backend/internal/config"
	"account-api.backend/internal/infrastructure/datasources/postgres"
	"account-api.backend/internal/infrastructure/migrations"
	"account-api.backend/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const dialect = "postgres"

var errUsage = errors.New("usage: migrate up|down|status")

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	openSQL    = postgres.NewConnection
	commands   = map[string]func(ctx context.Context, db *sql.DB, dialect string) error{
		"up":     migrations.Up,
		"down":   migrations.Down,
		"status": migrations.Status,
	}
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	command, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()
	logger.Init(cfg.App.Env, cfg.App.LogLevel)

	db, err := openSQL(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := command(ctx, db, dialect); err != nil {
		return fmt.Errorf("migrate %s: %w", args[0], err)
	}
	logger.Info(ctx, "migrations applied", zap.String("command", args[0]))
	return nil
}
