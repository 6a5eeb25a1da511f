package types_test

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleJSON_PreservesUnknownFields(t *testing.T) {
	input := `{"name":"eval-use","pattern":"eval\\(","message":"Avoid eval","severity":"high","cwe":"CWE-95","tags":["js"]}`

	var rule types.Rule
	require.NoError(t, json.Unmarshal([]byte(input), &rule))

	assert.Equal(t, "eval-use", rule.Name)
	assert.Equal(t, `eval\(`, rule.Pattern)
	assert.Equal(t, "CWE-95", rule.Extra["cwe"])

	out, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestRuleJSON_OmitsAbsentFields(t *testing.T) {
	rule := types.Rule{Name: "manual", Message: "look", Severity: "info", Absent: []string{"pattern"}}

	out, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"manual","message":"look","severity":"info"}`, string(out))
}

func TestRuleJSON_RoundTripsAsAuthored(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty_pattern_kept", `{"name":"a","pattern":"","message":"m","severity":"low"}`},
		{"missing_message_and_severity", `{"name":"a","pattern":"x"}`},
		{"only_extra_fields", `{"cwe":"CWE-95"}`},
		{"null_pattern", `{"name":"a","pattern":null,"message":"m","severity":"low"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rule types.Rule
			require.NoError(t, json.Unmarshal([]byte(tt.input), &rule))

			out, err := json.Marshal(rule)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestRuleFromRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]interface{}
		want    types.Rule
		wantErr bool
	}{
		{
			name:   "complete",
			record: map[string]interface{}{"name": "a", "pattern": "p", "message": "m", "severity": "low"},
			want:   types.Rule{Name: "a", Pattern: "p", Message: "m", Severity: "low"},
		},
		{
			name:   "null_pattern",
			record: map[string]interface{}{"name": "a", "pattern": nil, "message": "m", "severity": "low"},
			want: types.Rule{
				Name: "a", Message: "m", Severity: "low",
				Extra:  map[string]interface{}{"pattern": nil},
				Absent: []string{"pattern"},
			},
		},
		{
			name:   "missing_severity",
			record: map[string]interface{}{"name": "a", "pattern": "p", "message": "m"},
			want:   types.Rule{Name: "a", Pattern: "p", Message: "m", Absent: []string{"severity"}},
		},
		{
			name:    "numeric_severity",
			record:  map[string]interface{}{"name": "a", "severity": 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.RuleFromRecord(tt.record)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleSet_FindFirstWins(t *testing.T) {
	rs := types.RuleSet{Rules: []types.Rule{
		{Name: "dup", Message: "first"},
		{Name: "other", Message: "x"},
		{Name: "dup", Message: "second"},
	}}

	rule, ok := rs.Find("dup")
	require.True(t, ok)
	assert.Equal(t, "first", rule.Message)

	_, ok = rs.Find("DUP")
	assert.False(t, ok, "lookup is case-sensitive")

	assert.Equal(t, []string{"dup", "other", "dup"}, rs.Names())
}

func TestRuleSet_MarshalKeepsMeta(t *testing.T) {
	rs := types.RuleSet{
		Meta:  map[string]interface{}{"version": "2"},
		Rules: []types.Rule{{Name: "a", Message: "m", Severity: "low", Absent: []string{"pattern"}}},
	}

	out, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2","rules":[{"name":"a","message":"m","severity":"low"}]}`, string(out))
}

func TestReports(t *testing.T) {
	analysis := types.AnalysisReport{
		"security":    {{Name: "a"}, {Name: "b"}},
		"codequality": {{Name: "c"}},
	}
	assert.Equal(t, []string{"codequality", "security"}, analysis.Categories())
	assert.Equal(t, 3, analysis.Total())

	search := types.SearchReport{"z": nil, "a": nil}
	assert.Equal(t, []string{"a", "z"}, search.Categories())
}

func TestNewErrorReport(t *testing.T) {
	err := errors.New(errors.ErrUnknownCategory, "Unknown rule type: foo").
		WithDetail(errors.DetailAvailableTypes, []string{"security", "ddd"})

	report := types.NewErrorReport(err)
	assert.Equal(t, "Unknown rule type: foo", report.Error)
	assert.Equal(t, "UNKNOWN_CATEGORY", report.Code)
	assert.Equal(t, []string{"security", "ddd"}, report.AvailableTypes)
	assert.Empty(t, report.Suggestions)

	out, mErr := json.Marshal(report)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"error":"Unknown rule type: foo","code":"UNKNOWN_CATEGORY","available_types":["security","ddd"]}`, string(out))
}

func TestTemplateContent_IsMarkdown(t *testing.T) {
	assert.True(t, types.TemplateContent{Name: "README.md"}.IsMarkdown())
	assert.True(t, types.TemplateContent{Name: "GUIDE.MD"}.IsMarkdown())
	assert.False(t, types.TemplateContent{Name: "a.js"}.IsMarkdown())
}
