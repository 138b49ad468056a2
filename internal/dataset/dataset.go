// Package dataset holds named record splits and the deterministic
// shuffle/partition operations applied to them.
package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dataset-prep/internal/record"
)

// Canonical split names.
const (
	SplitTrain      = "train"
	SplitTest       = "test"
	SplitValidation = "validation"
)

// Dataset is a collection of named, disjoint record splits.
type Dataset struct {
	splits map[string][]*record.Record
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{splits: make(map[string][]*record.Record)}
}

// SetSplit stores records under the split name, replacing any previous
// content.
func (d *Dataset) SetSplit(name string, records []*record.Record) {
	if d.splits == nil {
		d.splits = make(map[string][]*record.Record)
	}
	d.splits[name] = records
}

// Split returns the records of a named split.
func (d *Dataset) Split(name string) ([]*record.Record, bool) {
	recs, ok := d.splits[name]
	return recs, ok
}

// Has reports whether the split exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.splits[name]
	return ok
}

// Names returns the split names in sorted order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.splits))
	for name := range d.splits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of splits.
func (d *Dataset) Len() int { return len(d.splits) }

// Shuffle returns a shuffled copy of records. The permutation is a pure
// function of the seed: same seed and same input always yield the same
// order.
func Shuffle(records []*record.Record, seed int64) []*record.Record {
	out := make([]*record.Record, len(records))
	copy(out, records)
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// TrainTestSplit shuffles records with the seed and cuts a contiguous
// testSize fraction as test, remainder as train. The two outputs
// partition the input exactly: every record lands in exactly one side.
func TrainTestSplit(records []*record.Record, testSize float64, seed int64) (train, test []*record.Record, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, eris.Errorf("dataset: test size must be in (0, 1), got %g", testSize)
	}
	k := len(records)
	if k < 2 {
		return nil, nil, eris.Errorf("dataset: need at least 2 records to split, got %d", k)
	}

	nTest := int(math.Round(float64(k) * testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > k-1 {
		nTest = k - 1
	}

	shuffled := Shuffle(records, seed)
	return shuffled[nTest:], shuffled[:nTest], nil
}
