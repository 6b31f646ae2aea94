// Package output renders reconciliation results for the command line.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ukaji3/sortx-go/pkg/sortx"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
)

// Feedback messages shown to the caller.
const (
	SuccessMessage = "Needlist updated successfully"
	DryRunMessage  = "Needlist matched (dry run, workbook not written)"
	FailureMessage = "Failure updating needlist"
)

// ToJSON serializes a run result to JSON.
func ToJSON(res *sortx.Result, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(res, "", "  ")
	}
	return json.Marshal(res)
}

// ToYAML serializes a run result to YAML, keeping the JSON field names.
func ToYAML(res *sortx.Result) ([]byte, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(data)
}

// Feedback returns the human-readable outcome lines for a run.
func Feedback(res *sortx.Result, err error) []string {
	if err != nil {
		return []string{FailureMessage, fmt.Sprintf("Error: %v", err)}
	}

	lines := []string{SuccessMessage}
	if res == nil {
		return lines
	}
	if !res.Saved {
		lines[0] = DryRunMessage
	}
	s := res.Summary
	lines = append(lines, fmt.Sprintf("%d of %d rows matched a folder (%d folders scanned)", s.MatchedRows, s.Rows, s.Directories))
	if len(s.Duplicates) > 0 {
		lines = append(lines, fmt.Sprintf("%d identifiers matched more than one folder; the last folder found was kept", len(s.Duplicates)))
	}
	return lines
}

// RenderTable renders the named columns of a table. Missing columns render empty.
func RenderTable(t *models.Table, columns []string) string {
	if t == nil || len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			if v := row[c]; v != nil {
				r[i] = v
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// RenderColumns renders a numbered list of column names.
func RenderColumns(columns []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "column"})
	for i, c := range columns {
		tw.AppendRow(table.Row{i + 1, c})
	}
	return tw.Render()
}
