package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
)

// queryTimeout bounds every catalog query.
const queryTimeout = 5 * time.Second

// DB abstracts the database operations used by the storage layer.
// Satisfied by *pgxpool.Pool in production and pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Storage is the read-only access the service needs to the automation
// catalog. It is a superset of automation.Catalog.
type Storage interface {
	automation.Catalog
	Get(ctx context.Context, id string) (*automation.Entry, error)
}

// PgStorage serves the automation catalog from PostgreSQL.
//
// Expected table:
//
//	CREATE TABLE automation_catalog (
//	    id         text PRIMARY KEY,
//	    label      text NOT NULL,
//	    params     text[] NOT NULL DEFAULT '{}',
//	    sort_order int NOT NULL DEFAULT 0,
//	    deleted_at timestamptz
//	);
type PgStorage struct {
	DB DB
}

// NewInstance creates a new PostgreSQL-backed Storage implementation.
func NewInstance(db *pgxpool.Pool) (*PgStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: db connection cannot be nil")
	}
	return &PgStorage{DB: db}, nil
}

// List returns every live catalog entry in display order.
func (s *PgStorage) List(ctx context.Context) ([]automation.Entry, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.DB.Query(timeoutCtx, `
        SELECT id, label, params
        FROM automation_catalog
        WHERE deleted_at IS NULL
        ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("query automation catalog: %w", err)
	}
	defer rows.Close()

	entries := []automation.Entry{}
	for rows.Next() {
		var e automation.Entry
		if err := rows.Scan(&e.ID, &e.Label, &e.Params); err != nil {
			return nil, fmt.Errorf("scan automation: %w", err)
		}
		if e.Params == nil {
			e.Params = []string{}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automation catalog: %w", err)
	}
	return entries, nil
}

// Get returns a single entry. A missing or deleted id yields an error
// wrapping both automation.ErrNotFound and pgx.ErrNoRows.
func (s *PgStorage) Get(ctx context.Context, id string) (*automation.Entry, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e := &automation.Entry{}
	err := s.DB.QueryRow(timeoutCtx, `
        SELECT id, label, params
        FROM automation_catalog
        WHERE id = $1 AND deleted_at IS NULL`,
		id).Scan(&e.ID, &e.Label, &e.Params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q: %w", automation.ErrNotFound, id, err)
		}
		return nil, fmt.Errorf("get automation %q: %w", id, err)
	}
	if e.Params == nil {
		e.Params = []string{}
	}
	return e, nil
}
