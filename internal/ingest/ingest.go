// Package ingest loads tabular input files into raw string tables. It does
// no typing and no interpretation: the schema normalizer owns all of that.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/schema"
)

// ReadFile loads a CSV or XLSX file into a raw table, dispatching on the
// file extension.
func ReadFile(path string) (*schema.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		return nil, common.NewUserError(
			fmt.Sprintf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(path)), nil)
	}
}

// ReadCSV reads a CSV file whose first row is the header. Ragged rows are
// normalized to the header width; real exports are full of them.
func ReadCSV(path string) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, common.ErrEmptyDataset
	}

	return buildTable(records), nil
}

// ReadXLSX reads the first sheet of an Excel workbook.
func ReadXLSX(path string) (*schema.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.ErrEmptyDataset
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, common.ErrEmptyDataset
	}

	return buildTable(records), nil
}

func buildTable(records [][]string) *schema.Table {
	headers := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(headers))
		copy(row, record)
		rows = append(rows, row)
	}
	return &schema.Table{Headers: headers, Rows: rows}
}
