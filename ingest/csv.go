package ingest

import (
	"context"
	"encoding/csv"
	"os"
)

// CSVSource loads a table from a plain CSV file.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a CSVSource for path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Rows implements TableSource.
func (s *CSVSource) Rows(_ context.Context) ([][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, missingTableError(s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing cells are handled per-record
	rows, err := r.ReadAll()
	if err != nil {
		return nil, missingTableError(s.Path, err)
	}
	if len(rows) == 0 {
		return nil, missingTableError(s.Path, nil)
	}
	return rows, nil
}
