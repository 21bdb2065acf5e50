package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource implements Source on a local .xlsx workbook: one worksheet per sheet name.
// Appends are saved back to the workbook file immediately.
type WorkbookSource struct {
	path string
	mu   sync.Mutex
	file *excelize.File
}

// OpenWorkbook opens the workbook at path. A missing or unreadable workbook is ErrUnavailable.
func OpenWorkbook(path string) (*WorkbookSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrUnavailable, path, err)
	}
	return &WorkbookSource{path: path, file: f}, nil
}

// Rows returns all rows of the worksheet named sheet.
func (w *WorkbookSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasSheetLocked(sheet) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// CreateSheet adds a worksheet with header in row 1 and saves the workbook.
func (w *WorkbookSource) CreateSheet(ctx context.Context, sheet string, header []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.hasSheetLocked(sheet) {
		return nil
	}
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	if len(header) > 0 {
		if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("write header of %q: %w", sheet, err)
		}
	}
	return w.saveLocked()
}

// AppendRow writes row below the last non-empty row of sheet and saves the workbook.
func (w *WorkbookSource) AppendRow(ctx context.Context, sheet string, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasSheetLocked(sheet) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("append row to %q: %w", sheet, err)
	}
	return w.saveLocked()
}

func (w *WorkbookSource) hasSheetLocked(sheet string) bool {
	idx, err := w.file.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

func (w *WorkbookSource) saveLocked() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

// SheetNames returns the worksheet names in workbook order.
func (w *WorkbookSource) SheetNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// Describe implements Source.
func (w *WorkbookSource) Describe() string {
	return "xlsx:" + w.path
}

// Close closes the workbook without saving.
func (w *WorkbookSource) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
