package suggest_test

import (
	"testing"

	"github.com/arthur-debert/rulebook/pkg/suggest"
	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	names := []string{"eval-use", "hardcoded-secret", "broken-pattern", "manual-review"}

	tests := []struct {
		name     string
		target   string
		limit    int
		expected []string
	}{
		{"typo", "eval-usee", 3, []string{"eval-use"}},
		{"prefix", "eval", 3, []string{"eval-use"}},
		{"case_insensitive_subsequence", "HARDCODED", 3, []string{"hardcoded-secret"}},
		{"nothing_close", "zzzzzz", 3, []string{}},
		{"exact_is_not_suggested", "eval-use", 3, []string{}},
		{"empty_target", "", 3, nil},
		{"zero_limit", "eval", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.Closest(tt.target, names, tt.limit)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClosest_RespectsLimitAndOrder(t *testing.T) {
	names := []string{"securityExamples.js", "security_examples.js", "securityExamples.jsx", "README.md"}

	got := suggest.Closest("securityExample.js", names, 2)

	assert.Len(t, got, 2)
	assert.Equal(t, "securityExamples.js", got[0])
}
