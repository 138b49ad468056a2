package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dataset-prep/internal/snapshot"
)

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "train.jsonl")
	content := `{"question":"2+2?","level":1}` + "\n" +
		`{bad json` + "\n" +
		`{"question":"3+3?"}` + "\n" +
		`{"question":"5+5?","level":2}` + "\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))

	require.NoError(t, convertFile(input, ""))

	output := filepath.Join(dir, "train.parquet")
	records, err := snapshot.Read(output)
	require.NoError(t, err)
	require.Len(t, records, 3)

	q, ok := records[0].Get("question")
	require.True(t, ok)
	assert.Equal(t, "2+2?", q.Str())
	assert.False(t, records[1].Has("level"))
}

func TestConvertFile_ExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.jsonl")
	output := filepath.Join(dir, "custom.parquet")
	require.NoError(t, os.WriteFile(input, []byte(`{"a":1}`+"\n"), 0o644))

	require.NoError(t, convertFile(input, output))

	_, err := os.Stat(output)
	require.NoError(t, err)
}

func TestConvertFile_EmptyInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.jsonl")
	require.NoError(t, os.WriteFile(input, []byte("not json at all\n"), 0o644))

	require.NoError(t, convertFile(input, ""))

	_, err := os.Stat(filepath.Join(dir, "empty.parquet"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertFile_MissingInput(t *testing.T) {
	err := convertFile(filepath.Join(t.TempDir(), "nope.jsonl"), "")
	require.Error(t, err)
}

func TestRunConvert_BatchSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	// Only train.jsonl exists; test.jsonl must be skipped silently.
	require.NoError(t, os.WriteFile("train.jsonl", []byte(`{"q":"x"}`+"\n"), 0o644))

	require.NoError(t, runConvert(nil, false))

	_, err = os.Stat("train.parquet")
	require.NoError(t, err)
	_, err = os.Stat("test.parquet")
	assert.True(t, os.IsNotExist(err))
}
