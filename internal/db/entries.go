package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"apiexplorer/internal/models"
)

// entryColumns is the standard column list for entry queries.
const entryColumns = `id, name, link, description, votes_up, votes_down, status, active,
	health_status, health_checked_at, health_error, created_at, updated_at`

// scanEntry scans a row into an Entry struct.
func scanEntry(row pgx.Row) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Link,
		&e.Description,
		&e.VotesUp,
		&e.VotesDown,
		&e.Status,
		&e.Active,
		&e.HealthStatus,
		&e.HealthCheckedAt,
		&e.HealthError,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// scanEntries scans multiple rows into a slice of Entries.
func scanEntries(rows pgx.Rows) ([]models.Entry, error) {
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// ListEntries returns every entry ordered by id.
func (d *DB) ListEntries(ctx context.Context) ([]models.Entry, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+entryColumns+` FROM apis ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// GetEntryByID retrieves a single entry.
func (d *DB) GetEntryByID(ctx context.Context, id int64) (*models.Entry, error) {
	return scanEntry(d.Pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM apis WHERE id = $1`, id))
}

// CreateEntry inserts an entry in its initial lifecycle state, ignoring any
// vote counts or status set on e. ID and timestamps are filled in.
func (d *DB) CreateEntry(ctx context.Context, e *models.Entry) error {
	return createEntry(ctx, d.Pool, e)
}

// querier is the subset of pgxpool.Pool and pgx.Tx used by shared statements.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func createEntry(ctx context.Context, q querier, e *models.Entry) error {
	fresh := models.NewEntry(e.Name, e.Link, e.Description)

	row := q.QueryRow(ctx, `
		INSERT INTO apis (name, link, description, votes_up, votes_down, status, active, health_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+entryColumns,
		fresh.Name,
		fresh.Link,
		fresh.Description,
		fresh.VotesUp,
		fresh.VotesDown,
		fresh.Status,
		fresh.Active,
		fresh.HealthStatus,
	)
	created, err := scanEntry(row)
	if err != nil {
		return mapPgError(err)
	}
	*e = *created
	return nil
}

// UpdateEntryDetails updates an entry's name, link and description. Vote
// counters and derived fields are left alone.
func (d *DB) UpdateEntryDetails(ctx context.Context, e *models.Entry) error {
	row := d.Pool.QueryRow(ctx, `
		UPDATE apis
		SET name = $1, link = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+entryColumns,
		e.Name, e.Link, e.Description, e.ID,
	)
	updated, err := scanEntry(row)
	if err != nil {
		return mapPgError(err)
	}
	*e = *updated
	return nil
}

// DeleteEntry removes an entry.
func (d *DB) DeleteEntry(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM apis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// UpdateEntry performs an atomic read-modify-write of an entry's vote state.
// The row is locked for the duration of the transaction so concurrent callers
// are serialized; fn sees the committed state of every earlier caller. Only the
// vote counters, status and active flag returned by fn are written. If fn or any
// statement fails the transaction is rolled back.
func (d *DB) UpdateEntry(ctx context.Context, id int64, fn func(models.Entry) (models.Entry, error)) (*models.Entry, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM apis WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}

	updated, err := scanEntry(tx.QueryRow(ctx, `
		UPDATE apis
		SET votes_up = $1, votes_down = $2, status = $3, active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+entryColumns,
		next.VotesUp, next.VotesDown, next.Status, next.Active, id,
	))
	if err != nil {
		return nil, fmt.Errorf("entry update failed: %w", mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}
	return updated, nil
}

// UpdateEntryHealthStatus records the outcome of a link probe.
func (d *DB) UpdateEntryHealthStatus(ctx context.Context, id int64, status string, errorMsg *string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE apis
		SET health_status = $1, health_checked_at = NOW(), health_error = $2
		WHERE id = $3
	`, status, errorMsg, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// GetEntriesNeedingHealthCheck returns entries never checked or last checked
// longer than maxAge ago, oldest first.
func (d *DB) GetEntriesNeedingHealthCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Entry, error) {
	cutoff := time.Now().Add(-maxAge)
	rows, err := d.Pool.Query(ctx, `
		SELECT `+entryColumns+` FROM apis
		WHERE health_checked_at IS NULL OR health_checked_at < $1
		ORDER BY health_checked_at NULLS FIRST
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// CountEntriesByStatus returns the number of entries per status and visibility.
func (d *DB) CountEntriesByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT status, active, COUNT(*) FROM apis
		GROUP BY status, active
		ORDER BY status, active
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Active, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
