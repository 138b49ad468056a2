package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/internal/record"
)

func TestRunSplit(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))

	fake := &fakeHub{ds: ds}
	addr, err := runSplit(context.Background(), fake, splitOptions{
		Repo:     "org/olympic",
		TestSize: 0.2,
		Seed:     42,
		Token:    "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://hub.sells.dev/datasets/org/olympic", addr)
	assert.Equal(t, "org/olympic", fake.publishedRepo)
	assert.Equal(t, "tok", fake.publishOpts.Token)

	require.NotNil(t, fake.published)
	train, ok := fake.published.Split(dataset.SplitTrain)
	require.True(t, ok)
	test, ok := fake.published.Split(dataset.SplitTest)
	require.True(t, ok)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	// Every input record lands on exactly one side.
	seen := make(map[*record.Record]int)
	for _, rec := range train {
		seen[rec]++
	}
	for _, rec := range test {
		seen[rec]++
	}
	input, _ := ds.Split(dataset.SplitTrain)
	require.Len(t, seen, len(input))
	for _, rec := range input {
		assert.Equal(t, 1, seen[rec])
	}
}

func TestRunSplit_Deterministic(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "a", "b", "c", "d", "e"))

	run := func() (*dataset.Dataset, error) {
		fake := &fakeHub{ds: ds}
		_, err := runSplit(context.Background(), fake, splitOptions{
			Repo:     "org/olympic",
			TestSize: 0.4,
			Seed:     7,
			Token:    "tok",
		})
		return fake.published, err
	}

	first, err := run()
	require.NoError(t, err)
	second, err := run()
	require.NoError(t, err)

	for _, name := range []string{dataset.SplitTrain, dataset.SplitTest} {
		a, _ := first.Split(name)
		b, _ := second.Split(name)
		require.Len(t, b, len(a))
		for i := range a {
			assert.Same(t, a[i], b[i], "split %s diverged at %d", name, i)
		}
	}
}

func TestRunSplit_NoTrainSplit(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitValidation, questionRecords(t, "a", "b"))

	fake := &fakeHub{ds: ds}
	_, err := runSplit(context.Background(), fake, splitOptions{
		Repo:     "org/valonly",
		TestSize: 0.2,
		Seed:     42,
		Token:    "tok",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no train split")
	assert.Nil(t, fake.published, "nothing may be published without a train split")
}

func TestRunSplit_BadTestSize(t *testing.T) {
	ds := dataset.New()
	ds.SetSplit(dataset.SplitTrain, questionRecords(t, "a", "b", "c"))

	fake := &fakeHub{ds: ds}
	_, err := runSplit(context.Background(), fake, splitOptions{
		Repo:     "org/olympic",
		TestSize: 1.5,
		Seed:     42,
		Token:    "tok",
	})
	require.Error(t, err)
	assert.Nil(t, fake.published)
}
