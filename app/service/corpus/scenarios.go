package corpus

import (
	"pitchdrill/app/service/scenario"

	"github.com/go-playground/validator/v10"
)

// Scenario is a ready-made practice scenario offered to trainees.
type Scenario struct {
	ID          string `yaml:"id" json:"id" validate:"required,max=64"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Type        string `yaml:"type" json:"type" validate:"required"`
	Description string `yaml:"description" json:"description" validate:"required"`
	Difficulty  string `yaml:"difficulty" json:"difficulty" validate:"oneof=easy realistic hard aggressive"`
}

// Category is the category a session started from this scenario runs under.
func (s Scenario) Category() scenario.Category {
	return scenario.Classify(s.Name)
}

func validateScenarios(list []Scenario) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]bool, len(list))

	for i, item := range list {
		if err := validate.Struct(item); err != nil {
			return configErrorf("scenario #%d (%q) is invalid: %v", i, item.ID, err)
		}
		if seen[item.ID] {
			return configErrorf("duplicate scenario id %q", item.ID)
		}
		seen[item.ID] = true
	}

	return nil
}

// Scenarios returns the scenario catalog in file order.
func (c *Corpus) Scenarios() []Scenario {
	result := make([]Scenario, len(c.scenarios))
	copy(result, c.scenarios)
	return result
}

// Scenario looks a catalog entry up by id.
func (c *Corpus) Scenario(id string) (Scenario, bool) {
	for _, item := range c.scenarios {
		if item.ID == id {
			return item, true
		}
	}

	return Scenario{}, false
}
