package responder

import (
	"pitchdrill/app/service/corpus"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

// Decision is the outcome of one selection.
type Decision struct {
	Pool corpus.Pool `json:"pool"`
	Rule string      `json:"rule"`
	Text string      `json:"text"`
}

type Selector struct {
	corpus      *corpus.Corpus
	picker      Picker
	avoidRepeat bool
}

type Option func(*Selector)

// WithAvoidRepeat stops the selector from returning the previous counterpart
// line when the pool has an alternative.
func WithAvoidRepeat(enabled bool) Option {
	return func(s *Selector) {
		s.avoidRepeat = enabled
	}
}

func NewSelector(c *corpus.Corpus, picker Picker, opts ...Option) *Selector {
	if picker == nil {
		picker = NewRandomPicker()
	}

	s := &Selector{
		corpus: c,
		picker: picker,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Select resolves the pool for in and samples one line from it.
func (s *Selector) Select(in Input) (Decision, error) {
	pool, ruleName := Resolve(in)

	lines := s.corpus.Lines(pool)
	if len(lines) == 0 {
		return Decision{}, oops.
			In("responder").
			Code("configuration_error").
			With("rule", ruleName).
			Wrapf(corpus.ErrConfiguration, "pool %q is missing or empty", pool)
	}

	if s.avoidRepeat && in.Previous != "" && len(lines) > 1 {
		filtered := pie.Filter(lines, func(line string) bool {
			return line != in.Previous
		})
		if len(filtered) > 0 {
			lines = filtered
		}
	}

	return Decision{
		Pool: pool,
		Rule: ruleName,
		Text: lines[s.picker.Pick(len(lines))],
	}, nil
}
