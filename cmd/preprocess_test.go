package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/internal/record"
	"github.com/sells-group/dataset-prep/internal/snapshot"
	"github.com/sells-group/dataset-prep/pkg/hub"
)

// fakeHub is an in-memory hub.Client for pipeline tests.
type fakeHub struct {
	ds      *dataset.Dataset
	loadErr error

	publishedRepo string
	published     *dataset.Dataset
	publishOpts   hub.PublishOptions
}

func (f *fakeHub) Load(_ context.Context, repoID string) (*dataset.Dataset, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.ds, nil
}

func (f *fakeHub) Publish(_ context.Context, repoID string, ds *dataset.Dataset, opts hub.PublishOptions) (string, error) {
	f.publishedRepo = repoID
	f.published = ds
	f.publishOpts = opts
	return "https://hub.sells.dev/datasets/" + repoID, nil
}

func questionRecords(t *testing.T, questions ...string) []*record.Record {
	t.Helper()
	records := make([]*record.Record, len(questions))
	for i, q := range questions {
		rec, err := record.Parse(fmt.Appendf(nil, `{"question":%q,"answer":"unused"}`, q))
		require.NoError(t, err)
		records[i] = rec
	}
	return records
}

func TestRunPreprocess(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "2+2?", "3+3?"))
	ds.SetSplit(dataset.SplitTest, questionRecords(t, "5+5?"))

	dir := t.TempDir()
	err := runPreprocess(context.Background(), &fakeHub{ds: ds}, nil, preprocessOptions{
		Source:   "org/math",
		LocalDir: dir,
	})
	require.NoError(t, err)

	train, err := snapshot.Read(filepath.Join(dir, "train.parquet"))
	require.NoError(t, err)
	require.Len(t, train, 2)

	for i, rec := range train {
		ds, ok := rec.Get("data_source")
		require.True(t, ok)
		assert.Equal(t, "org/math", ds.Str())

		extra, ok := rec.Get("extra_info")
		require.True(t, ok)
		idx, _ := extra.Obj().Get("index")
		assert.Equal(t, float64(i), idx.Num())
		split, _ := extra.Obj().Get("split")
		assert.Equal(t, "train", split.Str())
	}

	test, err := snapshot.Read(filepath.Join(dir, "test.parquet"))
	require.NoError(t, err)
	require.Len(t, test, 1)
	extra, _ := test[0].Get("extra_info")
	q, _ := extra.Obj().Get("question")
	assert.Equal(t, "5+5?", q.Str())
}

func TestRunPreprocess_ValidationDoublesAsTest(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "a", "b"))
	ds.SetSplit(dataset.SplitValidation, questionRecords(t, "c"))

	dir := t.TempDir()
	err := runPreprocess(context.Background(), &fakeHub{ds: ds}, nil, preprocessOptions{
		Source:   "org/math",
		LocalDir: dir,
	})
	require.NoError(t, err)

	validation, err := os.ReadFile(filepath.Join(dir, "validation.parquet"))
	require.NoError(t, err)
	test, err := os.ReadFile(filepath.Join(dir, "test.parquet"))
	require.NoError(t, err)
	assert.Equal(t, validation, test, "test snapshot must be a byte-identical copy of validation")
}

func TestRunPreprocess_ExistingTestNotOverwritten(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitValidation, questionRecords(t, "v"))
	ds.SetSplit(dataset.SplitTest, questionRecords(t, "t1", "t2"))

	dir := t.TempDir()
	err := runPreprocess(context.Background(), &fakeHub{ds: ds}, nil, preprocessOptions{
		Source:   "org/math",
		LocalDir: dir,
	})
	require.NoError(t, err)

	test, err := snapshot.Read(filepath.Join(dir, "test.parquet"))
	require.NoError(t, err)
	assert.Len(t, test, 2)
}

func TestRunPreprocess_MissingQuestionAborts(t *testing.T) {
	bad, err := record.Parse([]byte(`{"problem":"no question field"}`))
	require.NoError(t, err)

	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, append(questionRecords(t, "ok"), bad))

	dir := t.TempDir()
	err = runPreprocess(context.Background(), &fakeHub{ds: ds}, nil, preprocessOptions{
		Source:   "org/math",
		LocalDir: dir,
	})
	require.Error(t, err)

	// The failing split must not leave a snapshot behind.
	_, statErr := os.Stat(filepath.Join(dir, "train.parquet"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunPreprocess_RecipeOverride(t *testing.T) {
	recipePath := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(recipePath, []byte("ability: logic\n"), 0o644))

	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "p"))

	dir := t.TempDir()
	err := runPreprocess(context.Background(), &fakeHub{ds: ds}, nil, preprocessOptions{
		Source:     "org/logic",
		LocalDir:   dir,
		RecipePath: recipePath,
	})
	require.NoError(t, err)

	train, err := snapshot.Read(filepath.Join(dir, "train.parquet"))
	require.NoError(t, err)
	require.Len(t, train, 1)
	ability, _ := train[0].Get("ability")
	assert.Equal(t, "logic", ability.Str())
}
