package router

import (
	"regexp"
	"strings"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

// Keyword sets per specialist. Substring match on the lowercased prompt, so
// plurals ("sentiments", "purchases") are covered by their stems.
var specialistKeywords = map[contractx.AgentName][]string{
	contractx.AgentSentiment: {"sentiment", "review", "opinion", "emotion", "feedback", "complaint"},
	contractx.AgentPurchase:  {"purchase", "buying", "transaction", "payment", "sales", "order"},
	contractx.AgentCampaign:  {"campaign", "ctr", "conversion", "channel", "promotion", "impression"},
}

var strategyKeywords = []string{"strategy", "overall", "best", "comprehensive", "plan"}

// focusClausePattern captures the object of an explicit "based on X" / "using X"
// clause up to the next clause boundary.
var focusClausePattern = regexp.MustCompile(`(?:based on|using)\s+([^,.;!?]+)`)

// Route decides the ordered subset of specialists to run for a prompt and
// always appends the marketer exactly once. It is a deterministic, pure
// function of the prompt text.
//
// Priority:
//  1. A "based on X"/"using X" clause whose object maps to exactly one
//     specialist routes to that specialist alone.
//  2. An ambiguous clause (object matching several keyword sets) falls
//     through directly to the keyword scan of the whole prompt.
//  3. Otherwise any overall-strategy keyword routes to all specialists.
//  4. Otherwise the keyword scan picks every matching specialist in
//     canonical order, defaulting to all specialists on zero matches.
func Route(prompt string) []contractx.AgentName {
	p := strings.ToLower(prompt)

	if m := focusClausePattern.FindStringSubmatch(p); m != nil {
		matched := matchSpecialists(m[1])
		switch len(matched) {
		case 1:
			return withMarketer(matched)
		case 0:
			// clause names nothing we route on; ignore it
		default:
			return withMarketer(matchSpecialists(p))
		}
	}

	if containsAny(p, strategyKeywords) {
		return withMarketer(nil)
	}

	return withMarketer(matchSpecialists(p))
}

// matchSpecialists returns the specialists whose keyword set matches text,
// preserving canonical order.
func matchSpecialists(text string) []contractx.AgentName {
	var matched []contractx.AgentName
	for _, name := range contractx.SpecialistOrder {
		if containsAny(text, specialistKeywords[name]) {
			matched = append(matched, name)
		}
	}
	return matched
}

// withMarketer finalizes a route: an empty specialist subset means "run all",
// and the marketer is the terminal element.
func withMarketer(specialists []contractx.AgentName) []contractx.AgentName {
	if len(specialists) == 0 {
		specialists = append(specialists, contractx.SpecialistOrder...)
	}
	return append(specialists, contractx.AgentMarketer)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
