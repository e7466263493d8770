package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, "2023.csv", "year,leg_number,leg_version,runner,lap_time\n2023,1,1,Jane Doe,00:32:15\n")

	stdout, stderr, err := execute(t, "parse", path)
	require.NoError(t, err)

	var batch core.Batch
	require.NoError(t, json.Unmarshal([]byte(stdout), &batch))
	assert.Empty(t, batch.Placements)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "Jane Doe", batch.Results[0].Runner)
	assert.Empty(t, stderr)
}

func TestParseCommand_ReportsDropped(t *testing.T) {
	path := writeFile(t, "notes.csv", "year,notes\n2023,windy\n2024,hot\n")

	stdout, stderr, err := execute(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"placements": []`)
	assert.Contains(t, stderr, "2 unrecognized rows dropped")
}

func TestParseCommand_RejectsSpreadsheet(t *testing.T) {
	path := writeFile(t, "2023.xlsx", "not really a spreadsheet")

	_, _, err := execute(t, "parse", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE006")
}

func TestParseCommand_Validate(t *testing.T) {
	path := writeFile(t, "bad.csv", "year,leg_number,leg_version,runner,lap_time\n2023,1,1,,soon\n")

	_, _, err := execute(t, "parse", "--validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, _, err = execute(t, "parse", path)
	assert.NoError(t, err, "without --validate the file is only printed")
}

func TestParseCommand_RequiresOneArg(t *testing.T) {
	_, _, err := execute(t, "parse")
	assert.Error(t, err)
}
