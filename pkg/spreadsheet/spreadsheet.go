// Package spreadsheet wraps excelize with the small surface the bulk
// reconciliation and export flows need: header-keyed row parsing and
// single-sheet workbook building.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when a workbook carries no worksheets at all.
var ErrNoSheets = errors.New("spreadsheet: workbook has no sheets")

// Row is one data row keyed by the header cell of each column. Header keys
// are matched case-insensitively through Value.
type Row map[string]string

// Value returns the first non-empty cell among the given header names,
// ignoring case and surrounding whitespace.
func (r Row) Value(keys ...string) string {
	for _, key := range keys {
		for header, cell := range r {
			if strings.EqualFold(strings.TrimSpace(header), key) {
				if trimmed := strings.TrimSpace(cell); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// Has reports whether any of the given header names exists as a column,
// regardless of cell values.
func (r Row) Has(keys ...string) bool {
	for _, key := range keys {
		for header := range r {
			if strings.EqualFold(strings.TrimSpace(header), key) {
				return true
			}
		}
	}
	return false
}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; every following row becomes a Row keyed by those headers. Rows
// shorter than the header are padded with empty cells.
func Parse(reader io.Reader) ([]Row, []string, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheets
	}

	raw, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		headers[i] = strings.TrimSpace(cell)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, headers, nil
}

// Build writes a single-sheet workbook with the given header row and data
// rows and returns the serialized xlsx bytes.
func Build(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	file.SetActiveSheet(index)
	if sheet != "Sheet1" {
		file.DeleteSheet("Sheet1")
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("address row %d: %w", i+2, err)
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	out, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return out.Bytes(), nil
}

// BuildTemplate writes a workbook with only a header row, used to hand
// operators a pre-shaped sheet to fill in.
func BuildTemplate(sheet string, headers []string) ([]byte, error) {
	return Build(sheet, headers, nil)
}
