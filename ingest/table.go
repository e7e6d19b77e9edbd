// Package ingest loads flight, shipping, location, and container tables
// from CSV or XLSX sources into the fixed-schema records the rest of the
// pipeline consumes. Both encodings share one TableSource interface
// so the record loaders never know which format backed a given table.
package ingest

import (
	"context"

	"freightcore/pkg/apperror"
)

// TableSource yields a tabular file's rows, header row first.
type TableSource interface {
	// Rows returns every row of the source, including the header row as
	// Rows()[0]. A missing file or sheet is a Configuration-kind hard
	// failure, returned as *apperror.Error with CodeMissingTable.
	Rows(ctx context.Context) ([][]string, error)
}

// missingTableError builds the standard hard-failure error for an absent
// input table.
func missingTableError(path string, cause error) error {
	return apperror.Wrap(cause, apperror.CodeMissingTable, "input table not found: "+path).WithField("path")
}

// headerIndex maps each header's lowercased name, with every space removed, to its column
// position, so record loaders can look columns up by name regardless of
// their order in the file.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[normalizeHeader(col)] = i
	}
	return idx
}

func normalizeHeader(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != ' ' {
			out = append(out, c)
		}
	}
	return string(out)
}

// cell returns row[idx], or "" with ok=false if idx is out of range or
// the column was absent from the header.
func cell(row []string, idx int, present bool) (string, bool) {
	if !present || idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}
