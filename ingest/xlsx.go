package ingest

import (
	"context"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource loads a table from the first sheet of an XLSX workbook.
type WorkbookSource struct {
	Path string
}

// NewWorkbookSource returns a WorkbookSource for path.
func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{Path: path}
}

// Rows implements TableSource.
func (s *WorkbookSource) Rows(_ context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, missingTableError(s.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, missingTableError(s.Path, nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, missingTableError(s.Path, err)
	}
	if len(rows) == 0 {
		return nil, missingTableError(s.Path, nil)
	}
	return rows, nil
}
