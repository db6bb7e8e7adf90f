package source

import (
	"fmt"

	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads every row from the first sheet of an XLSX workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("read xlsx %s: workbook has no sheets", path)
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		cells := make([]string, len(r.Cells))
		for j, cell := range r.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return records, nil
}
