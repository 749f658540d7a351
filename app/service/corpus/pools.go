package corpus

import (
	"strings"

	"pitchdrill/app/service/scenario"
)

const greetingPrefix = "greetings."

// Pool names a list of candidate counterpart replies.
type Pool string

const (
	PoolIntroduceYourself       Pool = "introduce_yourself"
	PoolAskAboutNeeds           Pool = "ask_about_needs"
	PoolExplainSolution         Pool = "explain_solution"
	PoolDiscussFeatures         Pool = "discuss_features"
	PoolPricingPushback         Pool = "pricing_pushback"
	PoolValueDiscussion         Pool = "value_discussion"
	PoolCompetitorComparison    Pool = "competitor_comparison"
	PoolNegotiationTimeline     Pool = "negotiation_timeline"
	PoolTimelineConcerns        Pool = "timeline_concerns"
	PoolSecurityCompliance      Pool = "security_compliance"
	PoolSupportTraining         Pool = "support_training"
	PoolNegotiationPaymentTerms Pool = "negotiation_payment_terms"
	PoolNegotiationSLA          Pool = "negotiation_sla"
	PoolTrialRequest            Pool = "trial_request"
	PoolClosingSignals          Pool = "closing_signals"
	PoolPositiveInterest        Pool = "positive_interest"
	PoolObjectionTooBusy        Pool = "objection_too_busy"
	PoolPricingQuestion         Pool = "pricing_question"
	PoolClosingPriceObjection   Pool = "closing_price_objection"
	PoolClosingNegotiation      Pool = "closing_negotiation"
	PoolMidConversation         Pool = "mid_conversation"
	PoolEarlyConversation       Pool = "early_conversation"
)

// RequiredPools lists every response pool a corpus must provide.
var RequiredPools = []Pool{
	PoolIntroduceYourself,
	PoolAskAboutNeeds,
	PoolExplainSolution,
	PoolDiscussFeatures,
	PoolPricingPushback,
	PoolValueDiscussion,
	PoolCompetitorComparison,
	PoolNegotiationTimeline,
	PoolTimelineConcerns,
	PoolSecurityCompliance,
	PoolSupportTraining,
	PoolNegotiationPaymentTerms,
	PoolNegotiationSLA,
	PoolTrialRequest,
	PoolClosingSignals,
	PoolPositiveInterest,
	PoolObjectionTooBusy,
	PoolPricingQuestion,
	PoolClosingPriceObjection,
	PoolClosingNegotiation,
	PoolMidConversation,
	PoolEarlyConversation,
}

// GreetingPool names the opening-line pool of a category.
func GreetingPool(category scenario.Category) Pool {
	return Pool(greetingPrefix + string(category))
}

func (p Pool) greetingCategory() (scenario.Category, bool) {
	name, ok := strings.CutPrefix(string(p), greetingPrefix)
	if !ok {
		return "", false
	}

	return scenario.Parse(name)
}
