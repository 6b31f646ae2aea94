package sortx

import (
	"github.com/rs/zerolog"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
	"github.com/ukaji3/sortx-go/pkg/sortx/parser"
	"github.com/xuri/excelize/v2"
)

// TableLoader reads the needlist table out of a workbook.
type TableLoader struct {
	log zerolog.Logger
}

// NewTableLoader creates a loader that logs to logger.
func NewTableLoader(logger zerolog.Logger) *TableLoader {
	return &TableLoader{log: logger}
}

// Load reads the worksheet chosen by sheet and uses the 0-based headerIdx row as column headers.
func (l *TableLoader) Load(path string, sheet SheetSelector, headerIdx int) (*models.Table, error) {
	table, sheetName, err := l.load(path, sheet, headerIdx)
	if err != nil {
		lerr := &LoadError{Path: path, Sheet: sheet.String(), Err: err}
		l.log.Error().Err(err).Str("path", path).Stringer("sheet", sheet).Msg("Error reading excel file")
		return nil, lerr
	}

	l.log.Info().
		Str("path", path).
		Str("sheet", sheetName).
		Int("header_row", headerIdx+1).
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Columns)).
		Msg("Excel file read successfully")
	return table, nil
}

func (l *TableLoader) load(path string, sheet SheetSelector, headerIdx int) (*models.Table, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	sheetName, err := sheet.Resolve(f.GetSheetList())
	if err != nil {
		return nil, "", err
	}

	table, err := parser.ReadTable(f, sheetName, headerIdx)
	if err != nil {
		return nil, sheetName, err
	}
	return table, sheetName, nil
}

// Sheets lists the worksheet names of a workbook in order.
func (l *TableLoader) Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("Error reading excel file")
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
