// Package parser reads needlist tables out of excel worksheets.
package parser

import (
	"fmt"

	"github.com/ukaji3/sortx-go/pkg/sortx/models"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads the table whose header sits on the 0-based headerIdx row.
// Every populated row after the header becomes a data row; trailing blank
// rows are dropped, blank rows in between are kept.
func ReadTable(f *excelize.File, sheetName string, headerIdx int) (*models.Table, error) {
	if headerIdx < 0 {
		return nil, fmt.Errorf("header offset must be 0 or greater, got %d", headerIdx)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	rows = trimTrailingEmptyRows(rows)

	if headerIdx >= len(rows) {
		return nil, fmt.Errorf("header row %d is beyond the last populated row %d", headerIdx+1, len(rows))
	}

	width := 0
	for _, row := range rows[headerIdx:] {
		if len(row) > width {
			width = len(row)
		}
	}

	table := models.NewTable(HeaderNames(rows[headerIdx], width))

	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		values := make([]interface{}, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			values[colIdx] = typedValue(raw, cellType)
		}
		table.AppendRow(values)
	}

	return table, nil
}

// HeaderNames builds unique column names from a header row.
// Blank headers become "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func HeaderNames(header []string, width int) []string {
	if width < len(header) {
		width = len(header)
	}

	names := make([]string, width)
	used := make(map[string]bool, width)
	counts := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		unique := name
		for used[unique] {
			counts[name]++
			unique = fmt.Sprintf("%s.%d", name, counts[name])
		}
		used[unique] = true
		names[i] = unique
	}
	return names
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
