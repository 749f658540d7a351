package corpus

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"pitchdrill/app/service/scenario"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCorpus []byte

// ErrConfiguration marks a corpus that cannot serve every reachable pool.
var ErrConfiguration = errors.New("corpus configuration error")

// Corpus is the read-only library of counterpart replies.
// It must not be modified after Load returns.
type Corpus struct {
	greetings map[scenario.Category][]string
	responses map[Pool][]string
	scenarios []Scenario
}

type document struct {
	Greetings map[string][]string `yaml:"greetings"`
	Responses map[string][]string `yaml:"responses"`
	Scenarios []Scenario          `yaml:"scenarios"`
}

// Load reads the corpus at path, or the built-in corpus when path is empty,
// and validates it.
func Load(path string) (*Corpus, error) {
	data := defaultCorpus

	if path != "" {
		var err error

		data, err = os.ReadFile(path)
		if err != nil {
			return nil, oops.
				In("corpus").
				With("path", path).
				Errorf("failed to read corpus file: %w", err)
		}
	}

	return Parse(data)
}

// Parse decodes a YAML corpus and validates it.
func Parse(data []byte) (*Corpus, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.
			In("corpus").
			Code("configuration_error").
			Wrapf(errors.Join(ErrConfiguration, err), "failed to parse corpus")
	}

	c := &Corpus{
		greetings: make(map[scenario.Category][]string, len(doc.Greetings)),
		responses: make(map[Pool][]string, len(doc.Responses)),
		scenarios: doc.Scenarios,
	}

	for key, lines := range doc.Greetings {
		category, ok := scenario.Parse(key)
		if !ok {
			return nil, configErrorf("unknown greeting category %q", key)
		}
		c.greetings[category] = cleanLines(lines)
	}

	for key, lines := range doc.Responses {
		c.responses[Pool(key)] = cleanLines(lines)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that the general greeting pool, every declared greeting pool
// and every required response pool are non-empty, and that catalog scenarios
// are complete with unique ids.
func (c *Corpus) Validate() error {
	if len(c.greetings[scenario.CategoryGeneral]) == 0 {
		return configErrorf("greeting pool %q is missing or empty", scenario.CategoryGeneral)
	}

	for category, lines := range c.greetings {
		if len(lines) == 0 {
			return configErrorf("greeting pool %q is empty", category)
		}
	}

	for _, pool := range RequiredPools {
		if len(c.responses[pool]) == 0 {
			return configErrorf("response pool %q is missing or empty", pool)
		}
	}

	return validateScenarios(c.scenarios)
}

// Greetings returns the opening lines for a category, falling back to general.
func (c *Corpus) Greetings(category scenario.Category) []string {
	if lines, ok := c.greetings[category]; ok && len(lines) > 0 {
		return lines
	}

	return c.greetings[scenario.CategoryGeneral]
}

// Lines returns the candidates of any pool, greeting pools included.
func (c *Corpus) Lines(pool Pool) []string {
	if category, ok := pool.greetingCategory(); ok {
		return c.Greetings(category)
	}

	return c.responses[pool]
}

// Responses returns the lines of a response pool, nil if it does not exist.
func (c *Corpus) Responses(pool Pool) []string {
	return c.responses[pool]
}

// Pools lists the response pools present in the corpus, sorted by name.
func (c *Corpus) Pools() []Pool {
	return pie.Sort(pie.Keys(c.responses))
}

func cleanLines(lines []string) []string {
	return pie.Filter(pie.Map(lines, strings.TrimSpace), func(line string) bool {
		return line != ""
	})
}

func configErrorf(format string, args ...any) error {
	return oops.
		In("corpus").
		Code("configuration_error").
		Wrapf(ErrConfiguration, format, args...)
}
