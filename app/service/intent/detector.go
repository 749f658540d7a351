package intent

import (
	"regexp"
	"strings"

	"github.com/elliotchance/pie/v2"
)

var (
	greetingRe      = regexp.MustCompile(`^(hi|hello|hey|good morning|good afternoon|greetings)`)
	interrogativeRe = regexp.MustCompile(`^(what|how|why|when|where|who|which|can|could|would|will|do|does|did|is|are|should|shall)\b`)
	agreeingRe      = regexp.MustCompile(`^(yes|yeah|yep|sure|absolutely|agreed|exactly|right)\b`)

	// word starts only, so "SOC2" and "SLAs" count but "associate" does not
	socRe = regexp.MustCompile(`\bsoc`)
	slaRe = regexp.MustCompile(`\bsla`)
	tryRe = regexp.MustCompile(`\btry`)
	vsRe  = regexp.MustCompile(`\bvs\b`)
)

var (
	introductionKeywords = []string{"my name", "i am", "i'm"}
	needKeywords         = []string{"need", "looking for", "challenge", "problem"}
	solutionKeywords     = []string{"help", "solution", "offer", "provide"}
	featureKeywords      = []string{"feature", "capability", "function", "does it"}
	pricingKeywords      = []string{"price", "cost", "expensive", "budget", "$"}
	valueKeywords        = []string{"value", "roi", "save", "benefit"}
	competitorKeywords   = []string{"competitor", "alternative", "other option", "compared to", "versus"}
	timelineKeywords     = []string{"when", "how long", "timeline", "implement"}
	securityKeywords     = []string{"security", "secure", "compliance", "gdpr"}
	supportKeywords      = []string{"support", "help", "training", "onboarding"}
	discountKeywords     = []string{"discount", "lower", "reduce", "cheaper"}
	paymentKeywords      = []string{"payment", "terms", "monthly", "quarterly"}
	slaKeywords          = []string{"uptime", "guarantee", "availability"}
	trialKeywords        = []string{"trial", "test", "demo"}
	positiveKeywords     = []string{"interested", "sounds good", "like", "let's"}
	negativeKeywords     = []string{"not interested", "too busy", "no thanks"}
	agreeingKeywords     = []string{"makes sense", "that works"}
	providingKeywords    = []string{"we have", "we use", "we're", "we are", "our team", "currently", "right now we"}
)

func containsAny(text string, keywords []string) bool {
	return pie.Any(keywords, func(keyword string) bool {
		return strings.Contains(text, keyword)
	})
}

// Detect derives every intent flag from a user message.
// All flags are evaluated on each call so that callers can apply their own precedence.
func Detect(utterance string) Flags {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return Flags{}
	}

	var f Flags

	// pricing goes first: it suppresses value and explaining_solution
	f.Pricing = containsAny(text, pricingKeywords)

	f.Greeting = greetingRe.MatchString(text)
	f.Introduction = containsAny(text, introductionKeywords) ||
		(strings.Contains(text, "from") && strings.Contains(text, "company"))
	f.AskingNeed = strings.Contains(text, "what") && containsAny(text, needKeywords)
	f.ExplainingSolution = !f.Pricing && containsAny(text, solutionKeywords)
	f.DiscussingFeatures = containsAny(text, featureKeywords)
	f.Value = !f.Pricing && containsAny(text, valueKeywords)
	f.Competitor = containsAny(text, competitorKeywords) || vsRe.MatchString(text)
	f.Timeline = containsAny(text, timelineKeywords)
	f.Security = containsAny(text, securityKeywords) || socRe.MatchString(text)
	f.Support = containsAny(text, supportKeywords)
	f.Discount = containsAny(text, discountKeywords)
	f.PaymentTerms = containsAny(text, paymentKeywords)
	f.SLA = slaRe.MatchString(text) || containsAny(text, slaKeywords)
	f.Trial = containsAny(text, trialKeywords) || tryRe.MatchString(text)

	// "not interested" would otherwise read as positive
	f.Negative = containsAny(text, negativeKeywords)
	f.Positive = !f.Negative && containsAny(text, positiveKeywords)

	f.Question = strings.Contains(text, "?") || interrogativeRe.MatchString(text)
	f.Agreeing = agreeingRe.MatchString(text) || containsAny(text, agreeingKeywords)
	f.ProvidingInfo = containsAny(text, providingKeywords)

	return f
}
