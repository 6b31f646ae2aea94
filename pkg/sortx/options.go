// Package sortx reconciles needlist spreadsheet rows against a folder tree.
package sortx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// SheetSelector identifies a worksheet either by name or by 1-based position.
type SheetSelector struct {
	// Name is the worksheet name. Takes precedence over Index when set.
	Name string
	// Index is the 1-based worksheet position.
	Index int
}

// SheetByName selects a worksheet by name.
func SheetByName(name string) SheetSelector {
	return SheetSelector{Name: name}
}

// SheetByIndex selects a worksheet by 1-based position.
func SheetByIndex(index int) SheetSelector {
	return SheetSelector{Index: index}
}

// ParseSheetSelector turns caller text into a selector.
// All-digit text is a 1-based index; anything else is a sheet name.
func ParseSheetSelector(s string) SheetSelector {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.Atoi(trimmed); err == nil && trimmed != "" && trimmed[0] != '-' && trimmed[0] != '+' {
		return SheetByIndex(n)
	}
	return SheetByName(s)
}

// IsZero reports whether no sheet was selected.
func (s SheetSelector) IsZero() bool {
	return s.Name == "" && s.Index == 0
}

func (s SheetSelector) String() string {
	if s.Name != "" {
		return strconv.Quote(s.Name)
	}
	return "#" + strconv.Itoa(s.Index)
}

// Resolve returns the worksheet name the selector points to in sheetList.
func (s SheetSelector) Resolve(sheetList []string) (string, error) {
	if s.Name != "" {
		for _, name := range sheetList {
			if name == s.Name {
				return name, nil
			}
		}
		return "", fmt.Errorf("worksheet %q not found", s.Name)
	}
	idx, err := ToZeroBased(s.Index)
	if err != nil {
		return "", fmt.Errorf("sheet index: %w", err)
	}
	if idx >= len(sheetList) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", s.Index, len(sheetList))
	}
	return sheetList[idx], nil
}

// ToZeroBased converts a 1-based position to a 0-based offset.
// Non-positive input is rejected.
func ToZeroBased(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("position must be 1 or greater, got %d", n)
	}
	return n - 1, nil
}

// ToOneBased converts a 0-based offset back to a 1-based position.
func ToOneBased(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("offset must be 0 or greater, got %d", n)
	}
	return n + 1, nil
}

// Config is the immutable input of one reconciliation run.
type Config struct {
	// ExcelPath is the needlist workbook.
	ExcelPath string
	// FolderPath is the root folder to scan.
	FolderPath string
	// Sheet selects the worksheet holding the needlist.
	Sheet SheetSelector
	// HeaderRow is the 1-based row number of the column headers.
	HeaderRow int
	// ColumnName is the identifier column compared against folder names.
	ColumnName string
}

// HeaderOffset returns the 0-based header row.
func (c Config) HeaderOffset() (int, error) {
	off, err := ToZeroBased(c.HeaderRow)
	if err != nil {
		return 0, fmt.Errorf("header row: %w", err)
	}
	return off, nil
}

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Validate checks every input and reports all failing fields at once.
func (c Config) Validate() error {
	verr := &ValidationError{}

	switch {
	case strings.TrimSpace(c.ExcelPath) == "":
		verr.add("excel_path", "path is required")
	case !workbookExtensions[strings.ToLower(filepath.Ext(c.ExcelPath))]:
		verr.add("excel_path", "not an excel workbook (.xlsx, .xlsm, .xltx, .xltm)")
	default:
		info, err := os.Stat(c.ExcelPath)
		if err != nil {
			verr.add("excel_path", "file not found")
		} else if info.IsDir() {
			verr.add("excel_path", "path is a directory")
		}
	}

	if strings.TrimSpace(c.FolderPath) == "" {
		verr.add("folder_path", "path is required")
	} else if info, err := os.Stat(c.FolderPath); err != nil || !info.IsDir() {
		verr.add("folder_path", "folder not found")
	}

	if c.Sheet.IsZero() {
		verr.add("sheet_name", "sheet is required")
	} else if c.Sheet.Name == "" && c.Sheet.Index < 1 {
		verr.add("sheet_name", "sheet number must be 1 or greater")
	}

	if c.HeaderRow < 1 {
		verr.add("header_row", "header row must be 1 or greater")
	}

	if strings.TrimSpace(c.ColumnName) == "" {
		verr.add("column_name", "column name is required")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Options configures engine behavior beyond the run inputs.
type Options struct {
	// Logger receives component logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
	// Fs is the filesystem scanned for folders. Defaults to the OS filesystem.
	Fs afero.Fs
	// Writer persists the table. Defaults to an excelize-backed writer.
	Writer SpreadsheetWriter
	// Now returns the processed timestamp. Defaults to time.Now.
	Now func() time.Time
	// FailOnDuplicates aborts matching when an identifier matches a second folder.
	// When false the last folder visited wins.
	FailOnDuplicates bool
	// DryRun skips the spreadsheet write.
	DryRun bool
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	nop := zerolog.Nop()
	return Options{
		Logger: &nop,
		Fs:     afero.NewOsFs(),
		Now:    time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.Fs == nil {
		o.Fs = def.Fs
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	if o.Writer == nil {
		o.Writer = NewExcelWriter()
	}
	return o
}
