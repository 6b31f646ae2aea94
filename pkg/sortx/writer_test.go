package sortx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
	"github.com/xuri/excelize/v2"
)

// fakeWriter records calls and fails on the configured step.
type fakeWriter struct {
	failOn string
	calls  []string
	opened bool
}

func (w *fakeWriter) step(name string) error {
	w.calls = append(w.calls, name)
	if w.failOn == name {
		return errors.New(name + " exploded")
	}
	return nil
}

func (w *fakeWriter) Open(string) error {
	if err := w.step("open"); err != nil {
		return err
	}
	w.opened = true
	return nil
}

func (w *fakeWriter) WriteRegion(SheetSelector, int, *models.Table) error { return w.step("write") }
func (w *fakeWriter) Save() error                                          { return w.step("save") }
func (w *fakeWriter) Close() error {
	w.opened = false
	return w.step("close")
}

func TestTableWriterSessionOrder(t *testing.T) {
	fw := &fakeWriter{}
	cfg := testConfig(filepath.Join(t.TempDir(), "needlist.xlsx"), "")

	err := NewTableWriter(Options{Writer: fw}).Save(docTable("A100"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "write", "save", "close"}, fw.calls)
	assert.False(t, fw.opened)

	_, statErr := os.Stat(cfg.ExcelPath + ".lock")
	assert.NoError(t, statErr, "lock file should stay on disk")

	next := flock.New(cfg.ExcelPath + ".lock")
	ok, err := next.TryLock()
	require.NoError(t, err)
	assert.True(t, ok, "lock should be released")
	require.NoError(t, next.Unlock())

	fw.calls = nil
	require.NoError(t, NewTableWriter(Options{Writer: fw}).Save(docTable("A100"), cfg))
	assert.Equal(t, []string{"open", "write", "save", "close"}, fw.calls)
}

func TestTableWriterWrapsFailures(t *testing.T) {
	for _, step := range []string{"open", "write", "save", "close"} {
		t.Run(step, func(t *testing.T) {
			fw := &fakeWriter{failOn: step}
			cfg := testConfig(filepath.Join(t.TempDir(), "needlist.xlsx"), "")

			err := NewTableWriter(Options{Writer: fw}).Save(docTable("A100"), cfg)
			require.Error(t, err)
			assert.Equal(t, "error saving excel file", err.Error())
			assert.True(t, errors.Is(err, ErrSave))

			var serr *SaveError
			require.True(t, errors.As(err, &serr))
			assert.Contains(t, serr.Unwrap().Error(), step+" exploded")

			assert.Equal(t, "close", fw.calls[len(fw.calls)-1], "session must always be closed")
			assert.False(t, fw.opened)
		})
	}
}

func TestTableWriterRejectsUninitializedTable(t *testing.T) {
	fw := &fakeWriter{}
	err := NewTableWriter(Options{Writer: fw}).Save(nil, testConfig("x.xlsx", ""))
	assert.True(t, errors.Is(err, ErrState))
	assert.Empty(t, fw.calls)
}

func TestTableWriterLocked(t *testing.T) {
	fw := &fakeWriter{}
	cfg := testConfig(filepath.Join(t.TempDir(), "needlist.xlsx"), "")

	held := flock.New(cfg.ExcelPath + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	err = NewTableWriter(Options{Writer: fw}).Save(docTable("A100"), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkbookLocked))
	assert.Empty(t, fw.calls)
}

func TestExcelWriterRoundTrip(t *testing.T) {
	path := writeNeedlist(t)
	cfg := testConfig(path, "")
	loader := NewTableLoader(zerolog.Nop())

	table, err := loader.Load(path, cfg.Sheet, 1)
	require.NoError(t, err)

	require.NoError(t, NewTableWriter(Options{}).Save(table, cfg))

	reloaded, err := loader.Load(path, cfg.Sheet, 1)
	require.NoError(t, err)
	assert.Equal(t, table, reloaded)

	assert.Equal(t, "Project needlist", readCell(t, path, "Needlist", "A1"))
	assert.Equal(t, "keep me", readCell(t, path, "Notes", "B2"))
	assert.Equal(t, "00123", readCell(t, path, "Needlist", "A5"))
}

func TestExcelWriterAppendsResultColumns(t *testing.T) {
	path := writeNeedlist(t)
	cfg := testConfig(path, "")

	table, err := NewTableLoader(zerolog.Nop()).Load(path, cfg.Sheet, 1)
	require.NoError(t, err)

	table.EnsureColumn(models.StatusColumn)
	table.EnsureColumn(models.PathColumn)
	models.MatchResult{Status: "Yes", Path: "/data/A100", Processed: "2024-03-01 09:30:00"}.Apply(table.Rows[0])

	require.NoError(t, NewTableWriter(Options{}).Save(table, cfg))

	assert.Equal(t, "doc_no", readCell(t, path, "Needlist", "A2"))
	assert.Equal(t, "status", readCell(t, path, "Needlist", "D2"))
	assert.Equal(t, "filepath", readCell(t, path, "Needlist", "E2"))
	assert.Equal(t, "Yes", readCell(t, path, "Needlist", "D3"))
	assert.Equal(t, "/data/A100", readCell(t, path, "Needlist", "E3"))
	assert.Equal(t, "", readCell(t, path, "Needlist", "D4"))
	assert.Equal(t, "Beta", readCell(t, path, "Needlist", "B4"))
}

func TestExcelWriterWritesDatesAsDates(t *testing.T) {
	path := writeNeedlist(t)
	cfg := testConfig(path, "")

	table, err := NewTableLoader(zerolog.Nop()).Load(path, cfg.Sheet, 1)
	require.NoError(t, err)
	table.Rows[1]["title"] = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, NewTableWriter(Options{}).Save(table, cfg))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetCellValue("Needlist", "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "45352", raw)

	cellType, err := f.GetCellType("Needlist", "B4")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestExcelWriterClearsStaleRows(t *testing.T) {
	path := writeNeedlist(t)
	cfg := testConfig(path, "")

	table, err := NewTableLoader(zerolog.Nop()).Load(path, cfg.Sheet, 1)
	require.NoError(t, err)
	table.Rows = table.Rows[:1]

	require.NoError(t, NewTableWriter(Options{}).Save(table, cfg))

	assert.Equal(t, "A100", readCell(t, path, "Needlist", "A3"))
	for _, cell := range []string{"A4", "B4", "C4", "A5", "B5"} {
		assert.Equal(t, "", readCell(t, path, "Needlist", cell), cell)
	}
	assert.Equal(t, "Project needlist", readCell(t, path, "Needlist", "A1"))
}

func TestExcelWriterUnknownSheet(t *testing.T) {
	path := writeNeedlist(t)
	cfg := testConfig(path, "")
	cfg.Sheet = SheetByName("Missing")

	err := NewTableWriter(Options{}).Save(docTable("A100"), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSave))
}

func TestExcelWriterRequiresOpen(t *testing.T) {
	w := NewExcelWriter()
	assert.Error(t, w.WriteRegion(SheetByIndex(1), 0, docTable("A100")))
	assert.Error(t, w.Save())
	assert.NoError(t, w.Close())
}
