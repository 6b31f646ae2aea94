package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Region is an inclusive block of cells using 1-based coordinates.
type Region struct {
	R1 int
	C1 int
	R2 int
	C2 int
}

// Ref returns the region in A1:B2 notation.
func (r Region) Ref() string {
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return fmt.Sprintf("%s:%s", start, end)
}

// Union returns the smallest region covering both.
func (r Region) Union(o Region) Region {
	return Region{
		R1: min(r.R1, o.R1),
		C1: min(r.C1, o.C1),
		R2: max(r.R2, o.R2),
		C2: max(r.C2, o.C2),
	}
}

// ExpandTable returns the contiguous block starting at the 1-based anchor.
// The block grows right along the anchor row and down along the anchor column
// until the first empty cell. An empty anchor yields the anchor cell alone.
func ExpandTable(f *excelize.File, sheetName string, anchorCol, anchorRow int) (Region, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return Region{}, err
	}
	return expandBlock(rows, anchorCol, anchorRow), nil
}

// expandBlock works on 0-based rows with 1-based anchor coordinates.
func expandBlock(rows [][]string, anchorCol, anchorRow int) Region {
	region := Region{R1: anchorRow, C1: anchorCol, R2: anchorRow, C2: anchorCol}
	if cellAt(rows, anchorRow-1, anchorCol-1) == "" {
		return region
	}

	for cellAt(rows, anchorRow-1, region.C2) != "" {
		region.C2++
	}
	for cellAt(rows, region.R2, anchorCol-1) != "" {
		region.R2++
	}
	return region
}

// cellAt returns the cell at 0-based coordinates, or "" when out of bounds.
func cellAt(rows [][]string, rowIdx, colIdx int) string {
	if rowIdx < 0 || rowIdx >= len(rows) {
		return ""
	}
	row := rows[rowIdx]
	if colIdx < 0 || colIdx >= len(row) {
		return ""
	}
	return row[colIdx]
}
