package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"apiexplorer/internal/models"
)

const requestColumns = `id, name, link, description, submitted_date, status, status_reason, reviewed_at, entry_id`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var r models.Request
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Link,
		&r.Description,
		&r.SubmittedDate,
		&r.Status,
		&r.StatusReason,
		&r.ReviewedAt,
		&r.EntryID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRequests(rows pgx.Rows) ([]models.Request, error) {
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

// CreateRequest inserts a new pending request. ID, status and submitted date
// are assigned by the database.
func (d *DB) CreateRequest(ctx context.Context, req *models.Request) error {
	row := d.Pool.QueryRow(ctx, `
		INSERT INTO api_requests (name, link, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+requestColumns,
		req.Name, req.Link, req.Description, models.RequestPending,
	)
	created, err := scanRequest(row)
	if err != nil {
		return mapPgError(err)
	}
	*req = *created
	return nil
}

// GetRequestByID retrieves a single request.
func (d *DB) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	return scanRequest(d.Pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM api_requests WHERE id = $1`, id))
}

// ListRequests returns all requests, newest first.
func (d *DB) ListRequests(ctx context.Context) ([]models.Request, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+requestColumns+` FROM api_requests ORDER BY submitted_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scanRequests(rows)
}

// ListPendingRequests returns requests awaiting a decision, oldest first.
func (d *DB) ListPendingRequests(ctx context.Context) ([]models.Request, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+requestColumns+` FROM api_requests
		WHERE status = $1
		ORDER BY submitted_date ASC, id ASC
	`, models.RequestPending)
	if err != nil {
		return nil, err
	}
	return scanRequests(rows)
}

// UpdateRequest performs an atomic read-modify-write of a request. fn receives
// the locked row and returns its successor plus, optionally, a new entry to
// insert. The request update and the entry insert commit together or not at
// all, so a failed approval leaves the request pending and retryable.
func (d *DB) UpdateRequest(ctx context.Context, id int64, fn func(models.Request) (models.Request, *models.Entry, error)) (*models.Request, *models.Entry, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanRequest(tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM api_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}

	next, newEntry, err := fn(*current)
	if err != nil {
		return nil, nil, err
	}

	entryID := current.EntryID
	if newEntry != nil {
		if err := createEntry(ctx, tx, newEntry); err != nil {
			return nil, nil, fmt.Errorf("entry insert failed: %w", err)
		}
		entryID = &newEntry.ID
	}

	updated, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE api_requests
		SET status = $1, status_reason = $2, reviewed_at = NOW(), entry_id = $3
		WHERE id = $4
		RETURNING `+requestColumns,
		next.Status, next.StatusReason, entryID, id,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("request update failed: %w", mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("tx commit failed: %w", err)
	}
	return updated, newEntry, nil
}
