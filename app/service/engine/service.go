package engine

import (
	"fmt"
	"log/slog"

	"pitchdrill/app/config"
	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/intent"
	"pitchdrill/app/service/responder"
	"pitchdrill/app/service/scenario"

	"github.com/samber/do"
)

// Reply is the counterpart's next line and how it was chosen.
type Reply struct {
	Category  scenario.Category  `json:"category"`
	TurnCount int                `json:"turn_count"`
	Flags     intent.Flags       `json:"flags"`
	Decision  responder.Decision `json:"decision"`
}

type Service struct {
	selector *responder.Selector
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	c := do.MustInvoke[*corpus.Corpus](di)

	return NewService(c, responder.NewRandomPicker(), responder.WithAvoidRepeat(cfg.Corpus.AvoidRepeat)), nil
}

func NewService(c *corpus.Corpus, picker responder.Picker, opts ...responder.Option) *Service {
	return &Service{
		selector: responder.NewSelector(c, picker, opts...),
	}
}

// Reply picks the counterpart's answer to the latest user turn in history.
// history must not be modified while Reply runs.
func (s *Service) Reply(history []Turn, descriptor string) (*Reply, error) {
	category := scenario.Classify(descriptor)
	turnCount, latest, previous := scan(history)
	flags := intent.Detect(latest)

	decision, err := s.selector.Select(responder.Input{
		TurnCount: turnCount,
		Category:  category,
		Flags:     flags,
		Previous:  previous,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select reply: %w", err)
	}

	slog.Debug("Selected reply",
		"category", category,
		"turn", turnCount,
		"flags", flags.Names(),
		"rule", decision.Rule,
		"pool", decision.Pool,
	)

	return &Reply{
		Category:  category,
		TurnCount: turnCount,
		Flags:     flags,
		Decision:  decision,
	}, nil
}

// Opening returns a greeting line for the scenario, as if the counterpart spoke first.
func (s *Service) Opening(descriptor string) (responder.Decision, error) {
	decision, err := s.selector.Select(responder.Input{
		TurnCount: 1,
		Category:  scenario.Classify(descriptor),
	})
	if err != nil {
		return responder.Decision{}, fmt.Errorf("failed to select opening: %w", err)
	}

	return decision, nil
}
