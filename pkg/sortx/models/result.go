package models

// Result column names written on matched rows.
const (
	StatusColumn    = "status"
	PathColumn      = "filepath"
	ProcessedColumn = "processed_date"
)

// StatusMatched is the status value written on a matched row.
const StatusMatched = "Yes"

// TimestampLayout is the processed_date format (YYYY-MM-DD HH:MM:SS, local time).
const TimestampLayout = "2006-01-02 15:04:05"

// MatchResult holds the values written on a matched row.
type MatchResult struct {
	// Status is always StatusMatched.
	Status string `json:"status"`
	// Path is the full path of the matched directory.
	Path string `json:"filepath"`
	// Processed is the local time of the match, formatted with TimestampLayout.
	Processed string `json:"processed_date"`
}

// Apply writes the result into a row.
func (m MatchResult) Apply(row Row) {
	row[StatusColumn] = m.Status
	row[PathColumn] = m.Path
	row[ProcessedColumn] = m.Processed
}

// Summary describes the outcome of one matching pass.
type Summary struct {
	// Rows is the number of data rows in the table.
	Rows int `json:"rows"`
	// Directories is the number of directories visited under the root.
	Directories int `json:"directories"`
	// MatchedRows is the number of rows updated at least once.
	MatchedRows int `json:"matched_rows"`
	// MatchedIdentifiers lists identifiers that matched a directory, in first-match order.
	MatchedIdentifiers []string `json:"matched_identifiers,omitempty"`
	// UnmatchedIdentifiers lists identifiers with no directory, in row order.
	UnmatchedIdentifiers []string `json:"unmatched_identifiers,omitempty"`
	// Duplicates lists identifiers matched by more than one directory.
	Duplicates []string `json:"duplicates,omitempty"`
}
