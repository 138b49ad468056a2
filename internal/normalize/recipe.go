package normalize

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Recipe configures the normalization of one data source. Zero fields
// take defaults; only DataSource is required.
type Recipe struct {
	// DataSource is the originating dataset identifier, carried into
	// every normalized record and used downstream to pick a reward fn.
	DataSource string `yaml:"data_source"`
	// QuestionField names the raw field holding the problem statement.
	QuestionField string `yaml:"question_field"`
	// Ability is the coarse task tag.
	Ability string `yaml:"ability"`
	// RewardStyle is the reward_model style marker.
	RewardStyle string `yaml:"reward_style"`
}

// DefaultRecipe returns the standard math-proof recipe for a source.
func DefaultRecipe(dataSource string) Recipe {
	return Recipe{
		DataSource:    dataSource,
		QuestionField: "question",
		Ability:       "math",
		RewardStyle:   "llm_as_a_judge",
	}
}

// LoadRecipe reads a YAML recipe file over the given base recipe; keys
// absent from the file keep the base values.
func LoadRecipe(path string, base Recipe) (Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, eris.Wrapf(err, "normalize: read recipe %s", path)
	}
	r := base
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Recipe{}, eris.Wrapf(err, "normalize: parse recipe %s", path)
	}
	return r, nil
}

func (r Recipe) withDefaults() Recipe {
	def := DefaultRecipe(r.DataSource)
	if r.QuestionField == "" {
		r.QuestionField = def.QuestionField
	}
	if r.Ability == "" {
		r.Ability = def.Ability
	}
	if r.RewardStyle == "" {
		r.RewardStyle = def.RewardStyle
	}
	return r
}
