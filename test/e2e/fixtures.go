package e2e

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes sheets (rows including any header) to a new .xlsx file at path.
// Sheets are created in order; the default first sheet is left in place.
func WriteWorkbook(path string, order []string, sheets map[string][][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	for _, name := range order {
		rows, ok := sheets[name]
		if !ok {
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %q: %w", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			r := row
			if err := f.SetSheetRow(name, cell, &r); err != nil {
				return fmt.Errorf("write row %d of %q: %w", i+1, name, err)
			}
		}
	}
	return f.SaveAs(path)
}
