package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"recipe-service/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

var migrationName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// InitializeDatabase opens the configured database and brings its schema up
// to date.
func InitializeDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	dbConn, err := Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, dbConn, cfg.DatabaseDriver); err != nil {
		dbConn.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully", zap.String("driver", cfg.DatabaseDriver))
	return dbConn, nil
}

// Open connects to dsn with driver and pings it. SQLite connections always
// enforce foreign keys.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == config.DriverSQLite {
		dsn = withForeignKeys(dsn)
	}

	dbConn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return dbConn, nil
}

// Migrate applies every pending embedded migration for driver.
func Migrate(ctx context.Context, dbConn *sqlx.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", driver))
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, dbConn.DB, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, res := range results {
		logger.Info("Applied migration", zap.String("source", res.Source.Path), zap.Duration("duration", res.Duration))
	}
	return nil
}

// CreateMigration writes a new SQL migration into dir. Version numbering
// follows goose's package settings; main selects sequential numbering.
func CreateMigration(dir, name string) error {
	if !migrationName.MatchString(name) {
		return errors.New("migration name must be alphanumeric or underscore")
	}
	return goose.Create(nil, dir, name, "sql")
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
