package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"apiexplorer/internal/models"
	"apiexplorer/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedEntries inserts the given entries in their initial state if the apis
// table is empty. Returns the number of inserted entries.
func (d *DB) SeedEntries(ctx context.Context, entries []models.Entry) (int, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent seeders so only one of them sees an empty table.
	if _, err := tx.Exec(ctx, "LOCK TABLE apis IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return 0, fmt.Errorf("failed to lock apis: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM apis").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO apis (name, link, description, votes_up, votes_down, status, active)
			VALUES ($1, $2, $3, 0, 0, $4, TRUE)
		`, e.Name, e.Link, e.Description, models.StatusNew); err != nil {
			return 0, fmt.Errorf("failed to seed entry %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(entries), nil
}
