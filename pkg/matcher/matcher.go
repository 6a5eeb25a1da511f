package matcher

import (
	"strings"

	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/rs/zerolog"
)

// Matcher runs rules against analyzed text
type Matcher struct {
	engine Engine
	logger zerolog.Logger
}

// New creates a matcher. A nil engine selects regexp2 without a timeout.
func New(engine Engine) *Matcher {
	if engine == nil {
		engine = NewRegexp2Engine(0)
	}
	return &Matcher{
		engine: engine,
		logger: logging.GetLogger("matcher"),
	}
}

// Engine returns the engine patterns are compiled with
func (m *Matcher) Engine() Engine {
	return m.engine
}

// Analyze returns the rules whose pattern matches somewhere in text, in rule
// order. Empty patterns, patterns that do not compile and matches that time
// out are skipped.
func (m *Matcher) Analyze(text string, rules []types.Rule) []types.MatchResult {
	matched := collect(rules, func(rule types.Rule) bool {
		return m.matches(text, rule)
	})

	results := make([]types.MatchResult, 0, len(matched))
	for _, rule := range matched {
		results = append(results, rule.ToMatchResult())
	}
	return results
}

func (m *Matcher) matches(text string, rule types.Rule) bool {
	if rule.Pattern == "" {
		return false
	}

	pattern, err := m.engine.Compile(rule.Pattern)
	if err != nil {
		m.logger.Debug().
			Err(err).
			Str("rule", rule.Name).
			Str("engine", m.engine.Name()).
			Msg("Skipping rule with invalid pattern")
		return false
	}

	ok, err := pattern.MatchString(text)
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("rule", rule.Name).
			Msg("Pattern evaluation failed, treating as no match")
		return false
	}
	return ok
}

// Search returns the rules where keyword is a case-insensitive substring of
// the name, the message or the pattern text. An empty keyword keeps every
// rule.
func Search(keyword string, rules []types.Rule) []types.Rule {
	needle := strings.ToLower(keyword)
	return collect(rules, func(rule types.Rule) bool {
		return strings.Contains(strings.ToLower(rule.Name), needle) ||
			strings.Contains(strings.ToLower(rule.Message), needle) ||
			strings.Contains(strings.ToLower(rule.Pattern), needle)
	})
}

// collect keeps the rules accepted by pred, preserving order
func collect(rules []types.Rule, pred func(types.Rule) bool) []types.Rule {
	out := make([]types.Rule, 0)
	for _, rule := range rules {
		if pred(rule) {
			out = append(out, rule)
		}
	}
	return out
}
