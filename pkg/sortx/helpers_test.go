package sortx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

// writeNeedlist creates a workbook with a title row, headers on row 2 and a
// second sheet that must survive every write.
func writeNeedlist(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Needlist"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)

	cells := map[string]interface{}{
		"A1": "Project needlist",
		"A2": "doc_no",
		"B2": "title",
		"C2": "qty",
		"A3": "A100",
		"B3": "Alpha",
		"C3": 3,
		"A4": "A101",
		"B4": "Beta",
		"C4": 2.5,
		"A5": "00123",
		"B5": "Gamma",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.SetCellValue("Notes", "B2", "keep me"))

	path := filepath.Join(t.TempDir(), "needlist.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// mkdirs creates directories under root.
func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func readCell(t *testing.T, path, sheet, cell string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func testConfig(excelPath, folder string) Config {
	return Config{
		ExcelPath:  excelPath,
		FolderPath: folder,
		Sheet:      SheetByIndex(1),
		HeaderRow:  2,
		ColumnName: "doc_no",
	}
}
