package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embedded embed.FS

// Files returns the embedded migration set, rooted at the sql directory
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}

// Migrator manages database migrations
type Migrator struct {
	provider *goose.Provider
	logger   zerolog.Logger
}

// NewMigrator creates a migrator over an open database/sql handle
func NewMigrator(db *sql.DB, logger zerolog.Logger) (*Migrator, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, Files())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return &Migrator{provider: provider, logger: logger}, nil
}

// NewMigratorFromPool wraps a pgx pool in a database/sql handle for goose.
// The returned close func releases the wrapper, not the pool.
func NewMigratorFromPool(pool *pgxpool.Pool, logger zerolog.Logger) (*Migrator, func() error, error) {
	db := stdlib.OpenDBFromPool(pool)
	m, err := NewMigrator(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, db.Close, nil
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logger.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("Migration applied")
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) == 0 {
		m.logger.Info().Msg("Database schema is up to date")
	}
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	if result != nil {
		m.logger.Info().Int64("version", result.Source.Version).Str("file", result.Source.Path).Msg("Migration rolled back")
	}
	return nil
}

// Status logs the state of every known migration
func (m *Migrator) Status(ctx context.Context) error {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	for _, s := range statuses {
		evt := m.logger.Info().Int64("version", s.Source.Version).Str("file", s.Source.Path).Str("state", string(s.State))
		if !s.AppliedAt.IsZero() {
			evt = evt.Time("appliedAt", s.AppliedAt)
		}
		evt.Msg("Migration status")
	}
	return nil
}
