package sortx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
)

// FolderMatcher marks table rows whose identifier equals a directory name under a root folder.
type FolderMatcher struct {
	fs               afero.Fs
	log              zerolog.Logger
	now              func() time.Time
	failOnDuplicates bool
}

// NewFolderMatcher creates a matcher from engine options.
func NewFolderMatcher(opts Options) *FolderMatcher {
	opts = opts.withDefaults()
	return &FolderMatcher{
		fs:               opts.Fs,
		log:              *opts.Logger,
		now:              opts.Now,
		failOnDuplicates: opts.FailOnDuplicates,
	}
}

// Match walks cfg.FolderPath and updates every row whose cfg.ColumnName value
// equals a directory base name. Comparison is exact and case-sensitive; files
// never match. When several directories share a name the last one visited
// wins, unless the matcher fails on duplicates. Walk order is lexical.
// Symlinked directories match by name but are not descended into.
func (m *FolderMatcher) Match(table *models.Table, cfg Config) (models.Summary, error) {
	var summary models.Summary

	if !table.Initialized() {
		err := &StateError{Message: "table not initialized"}
		m.log.Error().Msg("Table is empty or not initialized")
		return summary, err
	}

	index, err := table.IndexBy(cfg.ColumnName)
	if err != nil {
		cerr := &ConfigurationError{Field: "column_name", Value: cfg.ColumnName, Message: "column not found in table"}
		m.log.Error().Str("column", cfg.ColumnName).Strs("columns", table.Columns).Msg("Identifier column missing")
		return summary, cerr
	}
	summary.Rows = len(table.Rows)

	visited := make(map[string]string)
	root := cfg.FolderPath

	walkErr := m.scan(root, func(path string) error {
		summary.Directories++

		name := filepath.Base(path)
		rows, ok := index[name]
		if !ok {
			return nil
		}

		if prev, seen := visited[name]; seen {
			m.log.Warn().Str("identifier", name).Str("previous", prev).Str("path", path).Msg("Identifier matched more than one folder")
			summary.Duplicates = appendUnique(summary.Duplicates, name)
			if m.failOnDuplicates {
				return &DuplicateError{Identifier: name, First: prev, Second: path}
			}
		} else {
			summary.MatchedIdentifiers = append(summary.MatchedIdentifiers, name)
		}
		visited[name] = path

		table.EnsureColumn(models.StatusColumn)
		table.EnsureColumn(models.PathColumn)
		table.EnsureColumn(models.ProcessedColumn)

		result := models.MatchResult{
			Status:    models.StatusMatched,
			Path:      path,
			Processed: m.now().Format(models.TimestampLayout),
		}
		for _, i := range rows {
			result.Apply(table.Rows[i])
		}
		m.log.Debug().Str("identifier", name).Str("path", path).Int("rows", len(rows)).Msg("Folder matched")
		return nil
	})
	if walkErr != nil {
		var derr *DuplicateError
		if errors.As(walkErr, &derr) {
			m.log.Error().Err(derr).Msg("Duplicate folder match")
			return summary, derr
		}
		m.log.Error().Err(walkErr).Str("root", root).Msg("Error scanning folder")
		return summary, &ScanError{Root: root, Err: walkErr}
	}

	for i, row := range table.Rows {
		key, ok := models.IdentifierText(row[cfg.ColumnName])
		if !ok {
			continue
		}
		if _, matched := visited[key]; matched {
			summary.MatchedRows++
			continue
		}
		if index[key][0] == i {
			summary.UnmatchedIdentifiers = append(summary.UnmatchedIdentifiers, key)
		}
	}

	m.log.Info().
		Int("directories", summary.Directories).
		Int("matched_rows", summary.MatchedRows).
		Int("unmatched", len(summary.UnmatchedIdentifiers)).
		Msg("Folder link updated successfully")
	return summary, nil
}

// scan calls visit for every directory below root in lexical order. The root
// itself is resolved with Stat, so a symlinked root is scanned. A symlink to a
// directory is visited under its own name but never descended into.
func (m *FolderMatcher) scan(root string, visit func(path string) error) error {
	info, err := m.fs.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return m.scanDir(root, visit)
}

func (m *FolderMatcher) scanDir(dir string, visit func(path string) error) error {
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := visit(path); err != nil {
				return err
			}
			if err := m.scanDir(path, visit); err != nil {
				return err
			}
		case entry.Mode()&os.ModeSymlink != 0:
			target, err := m.fs.Stat(path)
			if err != nil || !target.IsDir() {
				// dangling link or link to a file
				continue
			}
			if err := visit(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
