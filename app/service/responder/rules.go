package responder

import (
	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/intent"
	"pitchdrill/app/service/scenario"
)

// Input is everything the selector looks at for one reply.
type Input struct {
	// TurnCount is the number of user turns so far, 1 at the first user message.
	TurnCount int
	Category  scenario.Category
	Flags     intent.Flags
	// Previous is the last counterpart line, used to avoid immediate repeats.
	Previous string
}

type rule struct {
	name string
	pool corpus.Pool
	when func(in Input) bool
}

// intentRules is evaluated top to bottom, first match wins.
var intentRules = []rule{
	{"greeting", corpus.PoolIntroduceYourself, func(in Input) bool {
		return in.Flags.Greeting
	}},
	{"introduction", corpus.PoolIntroduceYourself, func(in Input) bool {
		return in.Flags.Introduction
	}},
	{"asking_need", corpus.PoolAskAboutNeeds, func(in Input) bool {
		return in.Flags.AskingNeed
	}},
	{"explaining_solution", corpus.PoolExplainSolution, func(in Input) bool {
		return in.Flags.ExplainingSolution && !in.Flags.Pricing
	}},
	{"discussing_features", corpus.PoolDiscussFeatures, func(in Input) bool {
		return in.Flags.DiscussingFeatures
	}},
	{"discount", corpus.PoolPricingPushback, func(in Input) bool {
		return in.Flags.Discount || (in.Flags.Pricing && in.Category == scenario.CategoryPriceObjection)
	}},
	{"value", corpus.PoolValueDiscussion, func(in Input) bool {
		return in.Flags.Value
	}},
	{"competitor", corpus.PoolCompetitorComparison, func(in Input) bool {
		return in.Flags.Competitor
	}},
	{"negotiation_timeline", corpus.PoolNegotiationTimeline, func(in Input) bool {
		return in.Flags.Timeline && in.Category == scenario.CategoryNegotiation
	}},
	{"timeline", corpus.PoolTimelineConcerns, func(in Input) bool {
		return in.Flags.Timeline
	}},
	{"security", corpus.PoolSecurityCompliance, func(in Input) bool {
		return in.Flags.Security
	}},
	{"support", corpus.PoolSupportTraining, func(in Input) bool {
		return in.Flags.Support
	}},
	{"payment_terms", corpus.PoolNegotiationPaymentTerms, func(in Input) bool {
		return in.Flags.PaymentTerms
	}},
	{"sla", corpus.PoolNegotiationSLA, func(in Input) bool {
		return in.Flags.SLA
	}},
	{"trial", corpus.PoolTrialRequest, func(in Input) bool {
		return in.Flags.Trial
	}},
	{"closing_signal", corpus.PoolClosingSignals, func(in Input) bool {
		return in.Flags.Positive && in.TurnCount >= 4
	}},
	{"positive", corpus.PoolPositiveInterest, func(in Input) bool {
		return in.Flags.Positive
	}},
	{"negative", corpus.PoolObjectionTooBusy, func(in Input) bool {
		return in.Flags.Negative
	}},
	{"pricing", corpus.PoolPricingQuestion, func(in Input) bool {
		return in.Flags.Pricing
	}},
}

const (
	closingTurn = 5
	midTurn     = 3
)

// Resolve picks the pool for an input without sampling from it.
// The second value names the rule that fired.
func Resolve(in Input) (corpus.Pool, string) {
	if in.TurnCount <= 1 {
		return corpus.GreetingPool(in.Category), "opening"
	}

	for _, r := range intentRules {
		if r.when(in) {
			return r.pool, r.name
		}
	}

	switch {
	case in.TurnCount >= closingTurn:
		return closingPool(in.Category), "closing"
	case in.TurnCount >= midTurn:
		return corpus.PoolMidConversation, "mid_conversation"
	default:
		return corpus.PoolEarlyConversation, "early_conversation"
	}
}

func closingPool(category scenario.Category) corpus.Pool {
	switch category {
	case scenario.CategoryPriceObjection:
		return corpus.PoolClosingPriceObjection
	case scenario.CategoryNegotiation:
		return corpus.PoolClosingNegotiation
	default:
		return corpus.PoolPositiveInterest
	}
}

// ReachablePools lists every response pool the decision table can name,
// greeting pools excluded.
func ReachablePools() []corpus.Pool {
	seen := make(map[corpus.Pool]bool)
	result := make([]corpus.Pool, 0)

	add := func(pool corpus.Pool) {
		if !seen[pool] {
			seen[pool] = true
			result = append(result, pool)
		}
	}

	for _, r := range intentRules {
		add(r.pool)
	}
	for _, category := range scenario.All() {
		add(closingPool(category))
	}
	add(corpus.PoolMidConversation)
	add(corpus.PoolEarlyConversation)

	return result
}
