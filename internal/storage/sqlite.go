package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSource implements Source using SQLite. Each sheet is a row in sheets; its rows are
// stored as JSON cell arrays in sheet_rows.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// NewSQLiteSource opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrUnavailable, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL: %v", ErrUnavailable, err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", ErrUnavailable, err)
	}

	return &SQLiteSource{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheets (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sheet_rows (
		sheet TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		cells TEXT NOT NULL,
		PRIMARY KEY (sheet, row_index),
		FOREIGN KEY (sheet) REFERENCES sheets(name) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteSource) sheetExists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, sheet string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, sheet).Scan(&n)
	return n > 0, err
}

// Rows returns all rows of sheet ordered by row index.
func (s *SQLiteSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	ok, err := s.sheetExists(ctx, s.db, sheet)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_index`, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row of %s: %w", sheet, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// CreateSheet creates sheet and writes header as row 0. Existing sheets are left untouched.
func (s *SQLiteSource) CreateSheet(ctx context.Context, sheet string, header []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := s.sheetExists(ctx, tx, sheet)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheets (name, created_at) VALUES (?, ?)`, sheet, time.Now()); err != nil {
		return err
	}
	if len(header) > 0 {
		if err := insertRow(ctx, tx, sheet, 0, header); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendRow appends row after the last row of sheet.
func (s *SQLiteSource) AppendRow(ctx context.Context, sheet string, row []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := s.sheetExists(ctx, tx, sheet)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_index) + 1, 0) FROM sheet_rows WHERE sheet = ?`, sheet,
	).Scan(&next); err != nil {
		return err
	}
	if err := insertRow(ctx, tx, sheet, next, row); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRow(ctx context.Context, tx *sql.Tx, sheet string, index int, row []string) error {
	if row == nil {
		row = []string{}
	}
	cellsJSON, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_index, cells) VALUES (?, ?, ?)`,
		sheet, index, string(cellsJSON),
	)
	return err
}

// CountSheets returns the number of sheets.
func (s *SQLiteSource) CountSheets(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets`).Scan(&count)
	return count, err
}

// Describe implements Source.
func (s *SQLiteSource) Describe() string {
	return "sqlite:" + s.path
}

// Close closes the database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
