package intent

// Flags is the set of intents detected in a single user message.
type Flags struct {
	Greeting           bool `json:"greeting"`
	Introduction       bool `json:"introduction"`
	AskingNeed         bool `json:"asking_need"`
	ExplainingSolution bool `json:"explaining_solution"`
	DiscussingFeatures bool `json:"discussing_features"`
	Pricing            bool `json:"pricing"`
	Value              bool `json:"value"`
	Competitor         bool `json:"competitor"`
	Timeline           bool `json:"timeline"`
	Security           bool `json:"security"`
	Support            bool `json:"support"`
	Discount           bool `json:"discount"`
	PaymentTerms       bool `json:"payment_terms"`
	SLA                bool `json:"sla"`
	Trial              bool `json:"trial"`
	Positive           bool `json:"positive"`
	Negative           bool `json:"negative"`
	Question           bool `json:"question"`
	Agreeing           bool `json:"agreeing"`
	ProvidingInfo      bool `json:"providing_info"`
}

func (f Flags) named() []struct {
	name string
	set  bool
} {
	return []struct {
		name string
		set  bool
	}{
		{"greeting", f.Greeting},
		{"introduction", f.Introduction},
		{"asking_need", f.AskingNeed},
		{"explaining_solution", f.ExplainingSolution},
		{"discussing_features", f.DiscussingFeatures},
		{"pricing", f.Pricing},
		{"value", f.Value},
		{"competitor", f.Competitor},
		{"timeline", f.Timeline},
		{"security", f.Security},
		{"support", f.Support},
		{"discount", f.Discount},
		{"payment_terms", f.PaymentTerms},
		{"sla", f.SLA},
		{"trial", f.Trial},
		{"positive", f.Positive},
		{"negative", f.Negative},
		{"question", f.Question},
		{"agreeing", f.Agreeing},
		{"providing_info", f.ProvidingInfo},
	}
}

// Names returns the names of the set flags in declaration order.
func (f Flags) Names() []string {
	result := make([]string, 0)

	for _, n := range f.named() {
		if n.set {
			result = append(result, n.name)
		}
	}

	return result
}

// Empty reports whether no flag is set.
func (f Flags) Empty() bool {
	return f == Flags{}
}
