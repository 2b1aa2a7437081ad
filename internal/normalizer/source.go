package normalizer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// HeaderError reports a source table whose header row is missing a required
// column. It is raised before any data row is read.
type HeaderError struct {
	Column string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("source is missing required column: %s", e.Column)
}

// ReadSource reads a tabular source file, dispatching on the file extension.
// CSV and XLSX sources share the same header contract.
func ReadSource(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return ReadCSV(path)
	}
}

// ReadCSV reads a UTF-8 CSV source file into rows keyed by column label.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // trailing slot columns may be ragged

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("source file has no header row: %s", path)
	}

	return tableToRows(cells)
}

// ReadXLSX reads the first sheet of an XLSX workbook into rows keyed by
// column label. The first sheet row is the header.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %s", path)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	return tableToRows(cells)
}

// tableToRows checks the header contract and maps each data row to its
// column labels. A missing required column aborts before any row is read.
func tableToRows(cells [][]string) ([]Row, error) {
	header := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		header[i] = strings.TrimSpace(h)
	}

	if err := checkHeader(header); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(line) {
				row[col] = line[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	for _, col := range requiredHeaders {
		if !present[col] {
			return &HeaderError{Column: col}
		}
	}
	return nil
}
