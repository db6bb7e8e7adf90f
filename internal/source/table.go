// Package source reads the tabular schedule and enrichment files. Files
// are re-read in full on every Load so out-of-band edits take effect on
// the next poll. CSV and XLSX formats are supported, chosen by extension.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// row is one data row keyed by trimmed column name.
type row map[string]string

// loadRows reads all rows from the file at path. The first row is the
// header; column names are whitespace-trimmed before use.
func loadRows(path string) ([]row, []string, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read %s: no header row", path)
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		r := make(row, len(header))
		for i, name := range header {
			if i < len(rec) {
				r[name] = rec[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, header, nil
}

// requireColumns errors if any of the named columns is absent from the
// trimmed header, failing the whole load.
func requireColumns(path string, header []string, names ...string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, name := range names {
		if !present[name] {
			return fmt.Errorf("read %s: missing required column %q", path, name)
		}
	}
	return nil
}
