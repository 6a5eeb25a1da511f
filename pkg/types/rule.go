package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Rule is one coding guideline: a named regex pattern with a message and a
// severity. Fields beyond the four known ones are kept in Extra so lookups
// return the record as authored. Absent lists the known fields the record
// did not carry; they are left out again when the rule is marshaled.
type Rule struct {
	Name     string
	Pattern  string
	Message  string
	Severity string
	Extra    map[string]interface{}
	Absent   []string
}

// Known rule fields in output order
var ruleFields = []string{"name", "pattern", "message", "severity"}

func isRuleField(key string) bool {
	for _, f := range ruleFields {
		if f == key {
			return true
		}
	}
	return false
}

// Has reports whether the record carried the known field
func (r Rule) Has(field string) bool {
	for _, f := range r.Absent {
		if f == field {
			return false
		}
	}
	return true
}

func (r Rule) field(key string) string {
	switch key {
	case "name":
		return r.Name
	case "pattern":
		return r.Pattern
	case "message":
		return r.Message
	default:
		return r.Severity
	}
}

// MarshalJSON emits Extra merged with every known field not listed in Absent
func (r Rule) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+len(ruleFields))
	for k, v := range r.Extra {
		out[k] = v
	}
	for _, key := range ruleFields {
		if r.Has(key) {
			out[key] = r.field(key)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the storage shape of a rule
func (r *Rule) UnmarshalJSON(data []byte) error {
	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	rule, err := RuleFromRecord(record)
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// RuleFromRecord converts a decoded storage record into a Rule. Known fields
// must be strings or null when present; anything else makes the record
// malformed. A null known field is kept in Extra and counted as absent.
func RuleFromRecord(record map[string]interface{}) (Rule, error) {
	var rule Rule
	for key, value := range record {
		if isRuleField(key) && value != nil {
			continue
		}
		if rule.Extra == nil {
			rule.Extra = make(map[string]interface{})
		}
		rule.Extra[key] = value
	}
	for _, key := range ruleFields {
		value, ok := record[key]
		if !ok || value == nil {
			rule.Absent = append(rule.Absent, key)
			continue
		}
		s, ok := value.(string)
		if !ok {
			return Rule{}, fmt.Errorf("rule field %q must be a string, got %T", key, value)
		}
		switch key {
		case "name":
			rule.Name = s
		case "pattern":
			rule.Pattern = s
		case "message":
			rule.Message = s
		case "severity":
			rule.Severity = s
		}
	}
	return rule, nil
}

// RuleSet is a category's rule collection in storage order. Meta holds the
// other top-level keys of the backing record.
type RuleSet struct {
	Category string
	Source   string
	Rules    []Rule
	Meta     map[string]interface{}
}

// MarshalJSON renders the rule set the way it is stored: top-level keys plus
// the ordered "rules" array.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(rs.Meta)+1)
	for k, v := range rs.Meta {
		out[k] = v
	}
	rules := rs.Rules
	if rules == nil {
		rules = []Rule{}
	}
	out["rules"] = rules
	return json.Marshal(out)
}

// Find returns the first rule with the exact name. Duplicates are not
// reported; the earliest in storage order wins.
func (rs RuleSet) Find(name string) (Rule, bool) {
	for _, rule := range rs.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

// Names lists rule names in storage order
func (rs RuleSet) Names() []string {
	names := make([]string, 0, len(rs.Rules))
	for _, rule := range rs.Rules {
		names = append(names, rule.Name)
	}
	return names
}

// MatchResult is the projection of a rule whose pattern matched analyzed text
type MatchResult struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ToMatchResult projects a rule onto its match result
func (r Rule) ToMatchResult() MatchResult {
	return MatchResult{Name: r.Name, Message: r.Message, Severity: r.Severity}
}

// AnalysisReport maps a category to the rules that matched, in storage
// order. Categories without matches are absent.
type AnalysisReport map[string][]MatchResult

// Categories returns the report's categories sorted by name
func (r AnalysisReport) Categories() []string {
	return sortedKeys(r)
}

// Total counts matches across all categories
func (r AnalysisReport) Total() int {
	total := 0
	for _, matches := range r {
		total += len(matches)
	}
	return total
}

// SearchReport maps a category to the full rule records matching a keyword
type SearchReport map[string][]Rule

// Categories returns the report's categories sorted by name
func (r SearchReport) Categories() []string {
	return sortedKeys(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
