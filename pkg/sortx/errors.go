package sortx

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrLoad indicates the spreadsheet could not be read into a table.
	ErrLoad = errors.New("load failed")
	// ErrState indicates a step ran before the step it depends on.
	ErrState = errors.New("invalid state")
	// ErrSave indicates the table could not be written back to the spreadsheet.
	ErrSave = errors.New("save failed")
	// ErrConfiguration indicates the run configuration does not fit the loaded data.
	ErrConfiguration = errors.New("configuration error")
	// ErrScan indicates the folder tree could not be walked.
	ErrScan = errors.New("scan failed")
	// ErrDuplicate indicates an identifier matched more than one directory.
	ErrDuplicate = errors.New("duplicate match")
	// ErrInvalidInput indicates the caller supplied invalid inputs.
	ErrInvalidInput = errors.New("invalid input")
)

// LoadError represents a failure to parse the spreadsheet.
type LoadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("error reading excel file %q (sheet %s): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("error reading excel file %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// StateError represents an operation invoked before its prerequisite completed.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func (e *StateError) Is(target error) bool { return target == ErrState }

// SaveError represents a failure while persisting the table.
// Error returns a generic message; the cause is available through Unwrap.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return "error saving excel file" }

func (e *SaveError) Unwrap() error { return e.Err }

func (e *SaveError) Is(target error) bool { return target == ErrSave }

// ConfigurationError represents a configured name missing from the loaded data.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s %q: %s", e.Field, e.Value, e.Message)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ScanError represents a failure while walking the folder tree.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("error scanning folder %q: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

func (e *ScanError) Is(target error) bool { return target == ErrScan }

// DuplicateError is returned when FailOnDuplicates is set and an identifier
// matches a second directory during one scan.
type DuplicateError struct {
	Identifier string
	First      string
	Second     string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("identifier %q matched more than one folder: %s, %s", e.Identifier, e.First, e.Second)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// ValidationError collects per-field input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}
