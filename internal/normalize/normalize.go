// Package normalize maps raw source records into the fixed record
// schema consumed by the training pipeline: a templated single-turn
// prompt plus data-source, ability, reward, and provenance fields.
package normalize

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dataset-prep/internal/record"
)

// Normalizer applies the record-mapping contract for one data source.
type Normalizer struct {
	recipe Recipe
}

// New builds a normalizer from the recipe. Empty recipe fields fall
// back to their defaults; DataSource must be set.
func New(recipe Recipe) (*Normalizer, error) {
	recipe = recipe.withDefaults()
	if recipe.DataSource == "" {
		return nil, eris.New("normalize: recipe has no data source")
	}
	return &Normalizer{recipe: recipe}, nil
}

// Apply maps one raw record to its normalized form. The result is a
// pure function of (record, split, idx, recipe). A record whose
// question field is missing, non-string, or empty is a fatal error:
// no normalized record without a question payload is valid.
func (n *Normalizer) Apply(rec *record.Record, split string, idx int) (*record.Record, error) {
	q, ok := rec.Get(n.recipe.QuestionField)
	if !ok {
		return nil, eris.Errorf("normalize: record %d in split %s has no %q field", idx, split, n.recipe.QuestionField)
	}
	if q.Kind() != record.KindString {
		return nil, eris.Errorf("normalize: record %d in split %s: field %q is %s, want string", idx, split, n.recipe.QuestionField, q.Kind())
	}
	question := q.Str()
	if question == "" {
		return nil, eris.Errorf("normalize: record %d in split %s has an empty question", idx, split)
	}

	message := record.New().
		Set("role", record.String("user")).
		Set("content", record.String(fmt.Sprintf(promptTemplate, question)))

	rewardModel := record.New().
		Set("style", record.String(n.recipe.RewardStyle)).
		// Grading is deferred to an external judge; the ground truth
		// slot is a fixed placeholder.
		Set("ground_truth", record.String("0"))

	extraInfo := record.New().
		Set("split", record.String(split)).
		Set("index", record.Int(idx)).
		Set("question", record.String(question))

	out := record.New().
		Set("data_source", record.String(n.recipe.DataSource)).
		Set("prompt", record.Array(record.Object(message))).
		Set("ability", record.String(n.recipe.Ability)).
		Set("reward_model", record.Object(rewardModel)).
		Set("extra_info", record.Object(extraInfo))
	return out, nil
}

// ApplyAll maps a whole split, indexing records by position. The first
// failure aborts: a partially normalized split is never written.
func (n *Normalizer) ApplyAll(records []*record.Record, split string) ([]*record.Record, error) {
	out := make([]*record.Record, 0, len(records))
	for idx, rec := range records {
		mapped, err := n.Apply(rec, split, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
