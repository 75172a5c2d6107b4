package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdit_NoArgs(t *testing.T) {
	_, _, err := executeCommand("edit")
	require.Error(t, err)
}

func TestEdit_Help(t *testing.T) {
	stdout, _, err := executeCommand("edit", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--set")
	assert.Contains(t, stdout, "--exit-code")
}

func TestEdit_NoAssignmentsIsClean(t *testing.T) {
	p := writeRecordFile(t, "b: 2\na: 1\n")

	stdout, stderr, err := executeCommand("edit", p)
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: false")
	assert.Equal(t, "a: 1\nb: 2\n", stdout)
}

func TestEdit_DirtyAfterDivergentSet(t *testing.T) {
	p := writeRecordFile(t, "a: 1\nb: 2\n")

	stdout, stderr, err := executeCommand("edit", p, "--set", "a=2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: true")
	assert.Equal(t, "a: 2\nb: 2\n", stdout)

	// The input file is left alone.
	data, err := os.ReadFile(p) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb: 2\n", string(data))
}

func TestEdit_SetBackToOriginalIsClean(t *testing.T) {
	p := writeRecordFile(t, "a: 1\nb: 2\n")

	stdout, stderr, err := executeCommand("edit", p, "-s", "a=2", "-s", "a=1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: false")
	assert.Equal(t, "a: 1\nb: 2\n", stdout)
}

func TestEdit_NumbersCompareByValue(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	_, stderr, err := executeCommand("edit", p, "--set", "a=1.0")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: false")
}

func TestEdit_QuotedValueIsString(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	stdout, stderr, err := executeCommand("edit", p, "--set", `a="1"`)
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: true")
	assert.Equal(t, "a: \"1\"\n", stdout)
}

func TestEdit_CommitClearsDirty(t *testing.T) {
	p := writeRecordFile(t, "a: 1\nb: 2\n")

	stdout, stderr, err := executeCommand("edit", p, "--set", "a=2", "--commit")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: false")
	assert.Equal(t, "a: 2\nb: 2\n", stdout)
}

func TestEdit_NewFieldIsNotTracked(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	stdout, stderr, err := executeCommand("edit", p, "--set", "c=true")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: false")
	assert.Equal(t, "a: 1\nc: true\n", stdout)
}

func TestEdit_Diff(t *testing.T) {
	p := writeRecordFile(t, "a: 1\nb: 2\n")

	_, stderr, err := executeCommand("edit", p, "--set", "a=2", "--diff", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stderr, "--- "+p)
	assert.Contains(t, stderr, "+++ result")
	assert.Contains(t, stderr, "-a: 1")
	assert.Contains(t, stderr, "+a: 2")
	assert.NotContains(t, stderr, "\033[")
}

func TestEdit_DiffNoChanges(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	_, stderr, err := executeCommand("edit", p, "--diff")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No differences found.")
}

func TestEdit_ExitCode(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	_, _, err := executeCommand("edit", p, "--set", "a=2", "--exit-code")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))

	_, _, err = executeCommand("edit", p, "--set", "a=1", "--exit-code")
	require.NoError(t, err)
}

func TestEdit_JSONFormat(t *testing.T) {
	p := writeRecordFile(t, "a: 1\nb: x\n")

	stdout, _, err := executeCommand("edit", p, "--format", "json", "--set", "a=2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 2, "b": "x"}`, stdout)
}

func TestEdit_JSONInput(t *testing.T) {
	p := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"enabled": false}`), 0o600))

	stdout, stderr, err := executeCommand("edit", p, "--set", "enabled=true")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: true")
	assert.Equal(t, "enabled: true\n", stdout)
}

func TestEdit_OutputFile(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")
	out := filepath.Join(t.TempDir(), "out", "result.yaml")

	stdout, _, err := executeCommand("edit", p, "--set", "a=5", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "a: 5\n", string(data))
}

func TestEdit_InvalidAssignment(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	_, _, err := executeCommand("edit", p, "--set", "a")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestEdit_MissingFile(t *testing.T) {
	_, _, err := executeCommand("edit", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading record file")
}

func TestEdit_NestedRecordRejected(t *testing.T) {
	p := writeRecordFile(t, "a:\n  b: 1\n")

	_, _, err := executeCommand("edit", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping values are not supported")
}

func TestEdit_NonFiniteNumberInFileRejected(t *testing.T) {
	p := writeRecordFile(t, "a: .inf\n")

	stdout, _, err := executeCommand("edit", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite number")
	assert.Empty(t, stdout)
}

func TestEdit_NonFiniteAssignmentIsString(t *testing.T) {
	p := writeRecordFile(t, "a: 1\n")

	stdout, stderr, err := executeCommand("edit", p, "--set", "a=.nan", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dirty: true")
	assert.JSONEq(t, `{"a": ".nan"}`, stdout)
}

func TestEdit_NonStringFieldNameRejected(t *testing.T) {
	p := writeRecordFile(t, "1: x\n")

	_, _, err := executeCommand("edit", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field names must be strings")
}
