package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource is an in-process Source. It is used by tests and demos, and can inject
// per-sheet failures.
type MemorySource struct {
	mu     sync.Mutex
	sheets map[string][][]string
	faults map[string][]error
	calls  map[string]int
}

// NewMemorySource returns a source holding a copy of sheets.
func NewMemorySource(sheets map[string][][]string) *MemorySource {
	m := &MemorySource{
		sheets: make(map[string][][]string, len(sheets)),
		faults: make(map[string][]error),
		calls:  make(map[string]int),
	}
	for name, rows := range sheets {
		m.sheets[name] = copyRows(rows)
	}
	return m
}

// FailNext queues errs to be returned, in order, by the next calls touching sheet.
func (m *MemorySource) FailNext(sheet string, errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[sheet] = append(m.faults[sheet], errs...)
}

// Calls returns how many Rows/AppendRow calls were made for sheet.
func (m *MemorySource) Calls(sheet string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[sheet]
}

func (m *MemorySource) nextFaultLocked(sheet string) error {
	m.calls[sheet]++
	q := m.faults[sheet]
	if len(q) == 0 {
		return nil
	}
	m.faults[sheet] = q[1:]
	return q[0]
}

// Rows implements Source.
func (m *MemorySource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextFaultLocked(sheet); err != nil {
		return nil, err
	}
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return copyRows(rows), nil
}

// CreateSheet implements Source.
func (m *MemorySource) CreateSheet(ctx context.Context, sheet string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet]; ok {
		return nil
	}
	if len(header) > 0 {
		m.sheets[sheet] = [][]string{append([]string(nil), header...)}
	} else {
		m.sheets[sheet] = [][]string{}
	}
	return nil
}

// AppendRow implements Source.
func (m *MemorySource) AppendRow(ctx context.Context, sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextFaultLocked(sheet); err != nil {
		return err
	}
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	m.sheets[sheet] = append(rows, append([]string(nil), row...))
	return nil
}

// Describe implements Source.
func (m *MemorySource) Describe() string {
	return "memory"
}

// Close implements Source.
func (m *MemorySource) Close() error {
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
