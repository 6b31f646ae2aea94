// Package models defines data structures for needlist reconciliation.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// Row maps a column name to its cell value.
// Values are string, int64, float64, bool, time.Time or nil for an empty cell.
type Row map[string]interface{}

// Table is an ordered set of rows read from a worksheet below its header row.
type Table struct {
	// Columns lists column names in sheet order (column A first).
	Columns []string `json:"columns"`
	// Rows holds the data rows in sheet order.
	Rows []Row `json:"rows"`
	// SourceWidth is the number of columns present in the worksheet when loaded.
	// Columns at or beyond this index were appended after load.
	SourceWidth int `json:"source_width"`
}

// NewTable creates a table with the given columns and no rows.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Columns:     cols,
		SourceWidth: len(cols),
	}
}

// Initialized reports whether the table has been populated by a loader.
func (t *Table) Initialized() bool {
	return t != nil && len(t.Columns) > 0
}

// ColumnIndex returns the 0-based index of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// EnsureColumn appends a column if it does not exist yet.
// Existing rows get an empty value for the new column.
func (t *Table) EnsureColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		row[name] = nil
	}
}

// AppendRow adds a row built from positional values.
// Missing trailing values are stored as nil.
func (t *Table) AppendRow(values []interface{}) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = nil
		}
	}
	t.Rows = append(t.Rows, row)
}

// Values returns a row as positional values in column order.
func (t *Table) Values(rowIdx int) []interface{} {
	row := t.Rows[rowIdx]
	values := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		values[i] = row[col]
	}
	return values
}

// IndexBy groups row indexes by the text form of the named column.
// Rows with an empty identifier are left out.
func (t *Table) IndexBy(column string) (map[string][]int, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("column %q not found", column)
	}
	index := make(map[string][]int)
	for i, row := range t.Rows {
		key, ok := IdentifierText(row[column])
		if !ok {
			continue
		}
		index[key] = append(index[key], i)
	}
	return index, nil
}

// IdentifierText returns the text compared against folder names.
func IdentifierText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int:
		return strconv.Itoa(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case time.Time:
		if h, m, sec := val.Clock(); h == 0 && m == 0 && sec == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02"), true
		}
		return val.Format(TimestampLayout), true
	default:
		return fmt.Sprint(val), true
	}
}
