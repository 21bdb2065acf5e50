// Package storage defines the tabular source the association table is learned from and the
// training log is appended to.
package storage

import (
	"context"
	"errors"
)

// Errors a Source reports so callers can tell skip, retry and abort conditions apart.
// Implementations wrap them; match with errors.Is.
var (
	// ErrSheetNotFound means the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrRateLimited means the backend asked the caller to slow down; the call may be retried.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable means the source as a whole cannot be reached or authenticated against.
	ErrUnavailable = errors.New("source unavailable")
)

// Source is a row-oriented spreadsheet-like store addressed by sheet name.
type Source interface {
	// Rows returns every row of sheet in order. Trailing empty cells may be omitted.
	Rows(ctx context.Context, sheet string) ([][]string, error)
	// CreateSheet creates sheet with header as its first row. It is a no-op if sheet exists.
	CreateSheet(ctx context.Context, sheet string, header []string) error
	// AppendRow appends row after the last row of sheet. Returns ErrSheetNotFound if sheet does not exist.
	AppendRow(ctx context.Context, sheet string, row []string) error
	// Describe returns a short human-readable description (backend and location).
	Describe() string
	Close() error
}
