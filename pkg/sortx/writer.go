package sortx

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
)

// ErrWorkbookLocked indicates another run holds the workbook write lock.
var ErrWorkbookLocked = errors.New("workbook is locked by another run")

// SpreadsheetWriter is an editing session on a single workbook.
// Open must be paired with Close; Close is safe after a failed Open.
type SpreadsheetWriter interface {
	// Open starts a session on the workbook at path.
	Open(path string) error
	// WriteRegion replaces the data block below the 0-based header row with the table rows.
	WriteRegion(sheet SheetSelector, headerIdx int, table *models.Table) error
	// Save persists the workbook to the path it was opened from.
	Save() error
	// Close ends the session and releases the workbook.
	Close() error
}

// TableWriter persists a matched table back into its workbook.
type TableWriter struct {
	writer SpreadsheetWriter
	log    zerolog.Logger
}

// NewTableWriter creates a table writer from engine options.
func NewTableWriter(opts Options) *TableWriter {
	opts = opts.withDefaults()
	return &TableWriter{writer: opts.Writer, log: *opts.Logger}
}

// Save writes table into cfg.ExcelPath. Only the data block anchored at the
// header row of the selected sheet is replaced; other regions and sheets are
// left as they are. The write is not atomic and takes no backup.
func (w *TableWriter) Save(table *models.Table, cfg Config) (err error) {
	if !table.Initialized() {
		w.log.Error().Msg("Table is empty or not initialized")
		return &StateError{Message: "table not initialized"}
	}

	headerIdx, err := cfg.HeaderOffset()
	if err != nil {
		return w.fail(cfg.ExcelPath, err)
	}

	lock := flock.New(cfg.ExcelPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return w.fail(cfg.ExcelPath, fmt.Errorf("acquire lock: %w", err))
	}
	if !locked {
		return w.fail(cfg.ExcelPath, ErrWorkbookLocked)
	}
	// The lock file stays on disk after Unlock.
	defer lock.Unlock()

	if err := w.writer.Open(cfg.ExcelPath); err != nil {
		_ = w.writer.Close()
		return w.fail(cfg.ExcelPath, fmt.Errorf("open workbook: %w", err))
	}
	defer func() {
		if cerr := w.writer.Close(); cerr != nil && err == nil {
			err = w.fail(cfg.ExcelPath, fmt.Errorf("close workbook: %w", cerr))
		}
	}()

	if err := w.writer.WriteRegion(cfg.Sheet, headerIdx, table); err != nil {
		return w.fail(cfg.ExcelPath, fmt.Errorf("write sheet %s: %w", cfg.Sheet, err))
	}
	if err := w.writer.Save(); err != nil {
		return w.fail(cfg.ExcelPath, fmt.Errorf("save workbook: %w", err))
	}

	w.log.Info().Str("path", cfg.ExcelPath).Int("rows", len(table.Rows)).Msg("Excel file saved successfully")
	return nil
}

func (w *TableWriter) fail(path string, err error) error {
	w.log.Error().Err(err).Str("path", path).Msg("Error saving excel file")
	return &SaveError{Path: path, Err: err}
}
