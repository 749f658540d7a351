// Package coaching produces live hints for the trainee after each exchange.
package coaching

import (
	"regexp"
	"strings"

	"github.com/elliotchance/pie/v2"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindTip     Kind = "tip"
)

type Tip struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

const (
	maxPronouns = 3
	maxWords    = 50
)

var (
	sellerPronounRe   = regexp.MustCompile(`\b(we|our|us)\b`)
	customerPronounRe = regexp.MustCompile(`\b(you|your)\b`)
	objectionWords    = []string{"objection", "concern", "skeptical"}
)

// Analyze reviews the trainee's message and the counterpart's reply at the given user turn.
func Analyze(userText, reply string, turnCount int) []Tip {
	message := strings.ToLower(userText)
	response := strings.ToLower(reply)
	asked := strings.Contains(message, "?")

	tips := make([]Tip, 0)

	if turnCount <= 2 && !asked {
		tips = append(tips, Tip{KindTip, "Try asking open-ended questions early to understand needs"})
	}

	if strings.Contains(message, "price") && turnCount <= 3 {
		tips = append(tips, Tip{KindWarning, "Discussing price too early! Build value first"})
	}

	if len(sellerPronounRe.FindAllString(message, -1)) > maxPronouns {
		tips = append(tips, Tip{KindWarning, `Too much "we/our" - focus on the customer!`})
	}

	if len(customerPronounRe.FindAllString(message, -1)) > maxPronouns {
		tips = append(tips, Tip{KindSuccess, "Great job making it about the customer!"})
	}

	raised := pie.Any(objectionWords, func(word string) bool {
		return strings.Contains(response, word)
	})
	if raised {
		tips = append(tips, Tip{KindTip, "Customer raised objection - acknowledge and address"})
	}

	if len(strings.Fields(message)) > maxWords {
		tips = append(tips, Tip{KindWarning, "Message too long - keep responses concise"})
	}

	if turnCount >= 4 && !asked {
		tips = append(tips, Tip{KindTip, "Ask qualifying questions to move towards close"})
	}

	return tips
}
