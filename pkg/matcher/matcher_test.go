package matcher_test

import (
	"testing"

	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/testutil"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	rules := []types.Rule{
		testutil.TodoRule,
		testutil.BrokenPatternRule,
		testutil.NoPatternRule,
		testutil.EvalRule,
	}

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"both_match_in_rule_order", "// TODO: drop\nx = eval(y)", []string{"todo-comment", "eval-use"}},
		{"only_eval", "x = eval(y)", []string{"eval-use"}},
		{"case_sensitive", "// todo later", []string{}},
		{"empty_text", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matcher.New(nil)
			results := m.Analyze(tt.text, rules)

			names := make([]string, 0, len(results))
			for _, r := range results {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestAnalyze_ProjectsMatchResult(t *testing.T) {
	m := matcher.New(matcher.NewRE2Engine())

	results := m.Analyze("x = eval(input)", []types.Rule{testutil.EvalRule})

	assert.Equal(t, []types.MatchResult{
		{Name: "eval-use", Message: "Avoid eval", Severity: "high"},
	}, results)
}

func TestAnalyze_PythonNamedGroup(t *testing.T) {
	rule := types.Rule{Name: "named-eval", Pattern: `(?P<fn>eval)\(`, Message: "Avoid eval", Severity: "high"}

	results := matcher.New(nil).Analyze("x = eval(y)", []types.Rule{rule})

	assert.Equal(t, []types.MatchResult{
		{Name: "named-eval", Message: "Avoid eval", Severity: "high"},
	}, results)
}

func TestAnalyze_SkipsWithoutCompiling(t *testing.T) {
	spy := testutil.NewSpyEngine(nil)
	m := matcher.New(spy)

	results := m.Analyze("anything (", []types.Rule{testutil.NoPatternRule, testutil.BrokenPatternRule})

	assert.Empty(t, results)
	assert.Equal(t, []string{"("}, spy.Compiled(), "empty patterns never reach the engine")
	assert.Equal(t, 0, spy.Evaluations(), "patterns that fail to compile are never evaluated")
}

func TestAnalyze_BrokenPatternNeverMatches(t *testing.T) {
	m := matcher.New(nil)
	for _, text := range []string{"", "(", "((", "broken-pattern", "Unbalanced group never compiles"} {
		assert.Empty(t, m.Analyze(text, []types.Rule{testutil.BrokenPatternRule}), "text %q", text)
	}
}

func TestAnalyze_ReturnsEmptySliceNotNil(t *testing.T) {
	results := matcher.New(nil).Analyze("x", nil)
	assert.NotNil(t, results)
	assert.Len(t, results, 0)
}

func TestSearch(t *testing.T) {
	rules := testutil.SecurityRules()

	tests := []struct {
		name     string
		keyword  string
		expected []string
	}{
		{"by_name", "EVAL", []string{"eval-use"}},
		{"by_message", "credentials", []string{"hardcoded-secret"}},
		{"by_pattern_text", "password|secret", []string{"hardcoded-secret"}},
		{"pattern_is_literal_not_regex", `eval\(`, []string{"eval-use"}},
		{"broken_pattern_text_is_searchable", "(", []string{"eval-use", "hardcoded-secret", "broken-pattern"}},
		{"empty_keyword_keeps_all", "", []string{"eval-use", "hardcoded-secret", "broken-pattern", "manual-review"}},
		{"no_match", "kubernetes", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := matcher.Search(tt.keyword, rules)

			names := make([]string, 0, len(results))
			for _, r := range results {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestSearch_ReturnsFullRecords(t *testing.T) {
	rule := testutil.EvalRule
	rule.Extra = map[string]interface{}{"cwe": "CWE-95"}

	results := matcher.Search("eval", []types.Rule{rule})

	assert.Equal(t, []types.Rule{rule}, results)
}
