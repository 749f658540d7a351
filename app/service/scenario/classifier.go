package scenario

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

type rule struct {
	keywords []string
	category Category
}

// rules are checked in order, first match wins.
var rules = []rule{
	{keywords: []string{"cold call"}, category: CategoryColdCall},
	{keywords: []string{"discovery", "enterprise"}, category: CategoryDiscovery},
	{keywords: []string{"demo", "follow"}, category: CategoryDemoFollowup},
	{keywords: []string{"price", "objection handling"}, category: CategoryPriceObjection},
	{keywords: []string{"negotiation", "deal push", "last-minute"}, category: CategoryNegotiation},
}

// Classify maps a free-text scenario descriptor to its category.
// Anything unrecognised is CategoryGeneral.
func Classify(descriptor string) Category {
	lower := strings.ToLower(descriptor)

	for _, r := range rules {
		matched := pie.Any(r.keywords, func(keyword string) bool {
			return strings.Contains(lower, keyword)
		})
		if matched {
			return r.category
		}
	}

	return CategoryGeneral
}
