package sortx

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sortx-go/pkg/sortx/models"
	"github.com/ukaji3/sortx-go/pkg/sortx/parser"
	"github.com/xuri/excelize/v2"
)

var errNotOpen = errors.New("workbook not open")

// ExcelWriter is a SpreadsheetWriter backed by excelize.
type ExcelWriter struct {
	f *excelize.File
}

// NewExcelWriter creates a writer with no open workbook.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Open implements SpreadsheetWriter.
func (w *ExcelWriter) Open(path string) error {
	if w.f != nil {
		return fmt.Errorf("workbook %s already open", w.f.Path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	w.f = f
	return nil
}

// WriteRegion implements SpreadsheetWriter.
// The contiguous block anchored at column A of the header row is cleared below
// the header, then the table rows are written starting one row under it.
// Existing header cells are kept; headers of appended columns are filled in.
func (w *ExcelWriter) WriteRegion(sheet SheetSelector, headerIdx int, table *models.Table) error {
	if w.f == nil {
		return errNotOpen
	}

	sheetName, err := sheet.Resolve(w.f.GetSheetList())
	if err != nil {
		return err
	}

	anchorRow, err := ToOneBased(headerIdx)
	if err != nil {
		return err
	}

	block, err := parser.ExpandTable(w.f, sheetName, 1, anchorRow)
	if err != nil {
		return err
	}
	for row := anchorRow + 1; row <= block.R2; row++ {
		for col := block.C1; col <= block.C2; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheetName, cell, nil); err != nil {
				return err
			}
		}
	}

	for i := table.SourceWidth; i < len(table.Columns); i++ {
		cell, err := excelize.CoordinatesToCellName(i+1, anchorRow)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheetName, cell, table.Columns[i]); err != nil {
			return err
		}
	}

	for i := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, anchorRow+1+i)
		if err != nil {
			return err
		}
		values := table.Values(i)
		if err := w.f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// Save implements SpreadsheetWriter.
func (w *ExcelWriter) Save() error {
	if w.f == nil {
		return errNotOpen
	}
	return w.f.Save()
}

// Close implements SpreadsheetWriter.
func (w *ExcelWriter) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
