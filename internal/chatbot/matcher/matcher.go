// Package matcher recognises a handful of conversational intents that are
// answered without consulting the classifier.
package matcher

import (
	"regexp"
	"strings"
)

// Category is the tag reported for every custom match.
const Category = "custom"

// Rule names.
const (
	RuleGreeting   = "greeting"
	RuleThanks     = "thanks"
	RuleEscalation = "escalation"
	RuleFarewell   = "farewell"
	RuleHelp       = "help"
)

// Rule pairs a pattern with a literal answer.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Response string
}

// Match is the result of a successful rule.
type Match struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Response string `json:"response"`
}

// Escalation reports whether the user asked for a human.
func (m Match) Escalation() bool { return m.Rule == RuleEscalation }

// DefaultRules are checked in order; the first hit wins.
var DefaultRules = []Rule{
	{
		Name:     RuleGreeting,
		Pattern:  regexp.MustCompile(`\b(hello|hi|hey)\b`),
		Response: "Hello, valued client!",
	},
	{
		Name:     RuleThanks,
		Pattern:  regexp.MustCompile(`\b(thank you|thanks)\b`),
		Response: "You're very welcome! Let me know if there's anything else I can help with.",
	},
	{
		Name:     RuleEscalation,
		Pattern:  regexp.MustCompile(`\bi want to (speak|talk) to a (human|representative|agent)\b`),
		Response: "I'll connect you to a human representative right away.",
	},
	{
		Name:     RuleFarewell,
		Pattern:  regexp.MustCompile(`\b(goodbye|bye|see you)\b`),
		Response: "Goodbye! Have a great day!",
	},
	{
		Name:     RuleHelp,
		Pattern:  regexp.MustCompile(`\b(help|assist)\b`),
		Response: "Sure, I'm here to help! Could you please provide more details?",
	},
}

type Matcher struct {
	rules []Rule
}

// New returns a matcher over rules, or DefaultRules when none are given.
func New(rules ...Rule) *Matcher {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Matcher{rules: rules}
}

// Match checks the lower-cased, trimmed raw text against each rule.
func (m *Matcher) Match(raw string) (Match, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range m.rules {
		if r.Pattern.MatchString(text) {
			return Match{Rule: r.Name, Category: Category, Response: r.Response}, true
		}
	}
	return Match{}, false
}
