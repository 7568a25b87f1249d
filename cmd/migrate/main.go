// Command migrate applies the embedded goose migrations to the postgres database
// and can load the demo data set.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/database"
	"github.com/Satheshwaran26/rentr/internal/logger"
	"github.com/Satheshwaran26/rentr/migrations"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Applied migrations come from the binary; new ones are written to ./migrations
const newMigrationsDir = "./migrations"

type command struct {
	usage string
	run   func(db *sql.DB, args []string) error
}

var commands = map[string]command{
	"up": {"apply all pending migrations", func(db *sql.DB, _ []string) error {
		return goose.Up(db, ".")
	}},
	"up-to": {"apply migrations up to VERSION", func(db *sql.DB, args []string) error {
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		return goose.UpTo(db, ".", version)
	}},
	"down": {"roll back the latest migration", func(db *sql.DB, _ []string) error {
		return goose.Down(db, ".")
	}},
	"redo": {"roll back and reapply the latest migration", func(db *sql.DB, _ []string) error {
		return goose.Redo(db, ".")
	}},
	"reset": {"roll back every migration", func(db *sql.DB, _ []string) error {
		return goose.Reset(db, ".")
	}},
	"status": {"print the state of each migration", func(db *sql.DB, _ []string) error {
		return goose.Status(db, ".")
	}},
	"version": {"print the current schema version", func(db *sql.DB, _ []string) error {
		return goose.Version(db, ".")
	}},
	"create": {"create NAME as a new sql migration", func(db *sql.DB, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		goose.SetBaseFS(nil)
		return goose.Create(db, newMigrationsDir, args[0], "sql")
	}},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate <command> [args]\n%s", usage())
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		return fmt.Errorf("goose migrations target postgres; sqlite databases use AutoMigrate")
	}

	if args[0] == "seed" {
		return seed(cfg)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", args[0], usage())
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := cmd.run(db, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// seed loads the demo users and properties into a migrated database
func seed(cfg *config.Config) error {
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.SeedDemoData(context.Background(), db, log); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("Demo data loaded", zap.String("database", cfg.Database.Name))
	return nil
}

func versionArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("a target version is required")
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return version, nil
}

func usage() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-8s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(&b, "  %-8s %s\n", "seed", "load the demo users and properties")
	return b.String()
}
