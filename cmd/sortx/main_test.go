package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "doc_no")
	f.SetCellValue("Sheet1", "B1", "title")
	f.SetCellValue("Sheet1", "A2", "A100")
	f.SetCellValue("Sheet1", "B2", "Alpha")
	f.SetCellValue("Sheet1", "A3", "A101")
	f.SetCellValue("Sheet1", "B3", "Beta")

	path := filepath.Join(t.TempDir(), "needlist.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-output", "discard", "--config", writeEmptyConfig(t)))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeEmptyConfig keeps a developer's own .sortx.yaml out of the tests.
func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sortx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	return path
}

func TestRunCommandJSON(t *testing.T) {
	path := writeWorkbook(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A100"), 0o755))

	stdout, _, err := execute(t, "run", "--excel", path, "--folder", root, "--column", "doc_no", "-o", "json")
	require.NoError(t, err)

	var res struct {
		Saved   bool `json:"saved"`
		Summary struct {
			MatchedRows int `json:"matched_rows"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.True(t, res.Saved)
	assert.Equal(t, 1, res.Summary.MatchedRows)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Yes", v)
}

func TestRunCommandText(t *testing.T) {
	path := writeWorkbook(t)
	root := t.TempDir()

	stdout, _, err := execute(t, "run", "-e", path, "-f", root, "-c", "doc_no", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dry run")
	assert.Contains(t, stdout, "0 of 2 rows matched a folder")
}

func TestRunCommandReportsInvalidInput(t *testing.T) {
	_, stderr, err := execute(t, "run", "--excel", "missing.xlsx")
	require.Error(t, err)
	assert.Contains(t, stderr, "Failure updating needlist")
	assert.Contains(t, stderr, "excel_path: file not found")
	assert.Contains(t, stderr, "column_name: column name is required")
}

func TestRunCommandRejectsOutputFormat(t *testing.T) {
	path := writeWorkbook(t)
	_, _, err := execute(t, "run", "-e", path, "-f", t.TempDir(), "-c", "doc_no", "-o", "xml")
	assert.Error(t, err)
}

func TestColumnsCommand(t *testing.T) {
	path := writeWorkbook(t)

	stdout, _, err := execute(t, "columns", "--excel", path, "--sheet", "Sheet1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "doc_no")
	assert.Contains(t, stdout, "title")
}

func TestSheetsCommand(t *testing.T) {
	path := writeWorkbook(t)

	stdout, _, err := execute(t, "sheets", "--excel", path)
	require.NoError(t, err)
	assert.Equal(t, "1\tSheet1\n", stdout)
}

func TestConfigFileUsesNeedlistInputNames(t *testing.T) {
	path := writeWorkbook(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A101"), 0o755))

	cfgPath := filepath.Join(t.TempDir(), "project.yaml")
	content := "excel_path: " + path + "\nfolder_path: " + root + "\ncolumn_name: doc_no\nheader_row: 1\nsheet_name: \"1\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--config", cfgPath, "--log-output", "discard", "-o", "json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), `"matched_rows": 1`)
}
