package scenario

// Category is the closed set of training scenario types.
type Category string

const (
	CategoryColdCall       Category = "cold_call"
	CategoryDiscovery      Category = "discovery"
	CategoryDemoFollowup   Category = "demo_followup"
	CategoryPriceObjection Category = "price_objection"
	CategoryNegotiation    Category = "negotiation"
	CategoryGeneral        Category = "general"
)

var allCategories = []Category{
	CategoryColdCall,
	CategoryDiscovery,
	CategoryDemoFollowup,
	CategoryPriceObjection,
	CategoryNegotiation,
	CategoryGeneral,
}

// All returns every category in classification priority order, general last.
func All() []Category {
	result := make([]Category, len(allCategories))
	copy(result, allCategories)
	return result
}

// Parse accepts an explicit category name.
func Parse(value string) (Category, bool) {
	for _, c := range allCategories {
		if string(c) == value {
			return c, true
		}
	}

	return "", false
}

func (c Category) String() string {
	return string(c)
}
