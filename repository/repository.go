// Package repository holds the SQL persistence layer. Each repository runs
// its statements through a Querier, which both *sql.DB and *sql.Tx satisfy,
// so the same methods serve autocommit reads and transactional flows.
package repository

import (
	"context"
	"database/sql"
)

type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
