package testutil

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/arthur-debert/rulebook/pkg/filesystem"
	"github.com/arthur-debert/rulebook/pkg/types"
)

// Fixture locations inside the in-memory filesystem
const (
	RulesDir     = "/rules"
	TemplatesDir = "/rules/templates"
	PythonDir    = "/rules/templates/securityExamplesPython"
)

// Sample rule sets shared by package tests
var (
	EvalRule = types.Rule{
		Name:     "eval-use",
		Pattern:  `eval\(`,
		Message:  "Avoid eval",
		Severity: "high",
	}

	HardcodedSecretRule = types.Rule{
		Name:     "hardcoded-secret",
		Pattern:  `(?i)(password|secret)\s*=\s*["']`,
		Message:  "Do not hardcode credentials",
		Severity: "critical",
	}

	TodoRule = types.Rule{
		Name:     "todo-comment",
		Pattern:  "TODO",
		Message:  "Resolve TODO comments before merging",
		Severity: "low",
	}

	BrokenPatternRule = types.Rule{
		Name:     "broken-pattern",
		Pattern:  "(",
		Message:  "Unbalanced group never compiles",
		Severity: "medium",
	}

	NoPatternRule = types.Rule{
		Name:     "manual-review",
		Message:  "Review SQL string building by hand",
		Severity: "info",
		Absent:   []string{"pattern"},
	}

	NestedLoopRule = types.Rule{
		Name:     "nested-loop",
		Pattern:  `for .*:\s*\n\s+for `,
		Message:  "Nested loops may be quadratic",
		Severity: "medium",
	}
)

// SecurityRules is the security fixture rule set in storage order
func SecurityRules() []types.Rule {
	return []types.Rule{EvalRule, HardcodedSecretRule, BrokenPatternRule, NoPatternRule}
}

// PerformanceRules is the performance fixture rule set in storage order
func PerformanceRules() []types.Rule {
	return []types.Rule{NestedLoopRule}
}

// CodeQualityRules is the codequality fixture rule set in storage order
func CodeQualityRules() []types.Rule {
	return []types.Rule{TodoRule}
}

// RulesFile returns the fixture path of a category's JSON rule file
func RulesFile(category string) string {
	return path.Join(RulesDir, category+"_rules.json")
}

// RuleSetJSON renders rules in the storage format
func RuleSetJSON(t testing.TB, rules ...types.Rule) string {
	t.Helper()
	if rules == nil {
		rules = []types.Rule{}
	}
	data, err := json.MarshalIndent(map[string]interface{}{"rules": rules}, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal fixture rules: %v", err)
	}
	return string(data)
}

// SampleTree returns a complete fixture tree: rule files for security,
// performance and codequality plus templates and examples
func SampleTree(t testing.TB) map[string]string {
	t.Helper()
	return map[string]string{
		RulesFile("security"):    RuleSetJSON(t, SecurityRules()...),
		RulesFile("performance"): RuleSetJSON(t, PerformanceRules()...),
		RulesFile("codequality"): RuleSetJSON(t, CodeQualityRules()...),

		TemplatesDir + "/securityExamples.js":     "// security examples\nconst safe = JSON.parse(input);\n",
		TemplatesDir + "/performance_examples.js": "// performance examples\n",
		TemplatesDir + "/Component.jsx":           "export const Component = () => <div/>;\n",
		TemplatesDir + "/ServiceTemplate.java":    "public class ServiceTemplate {}\n",
		TemplatesDir + "/README.md":               "# Templates\n\nStarter files.\n",
		TemplatesDir + "/notes.txt":               "not listed\n",
		PythonDir + "/sql_injection.py":           "cursor.execute(query, params)\n",
		PythonDir + "/command_injection.py":       "subprocess.run(args, check=True)\n",
		PythonDir + "/readme.txt":                 "not python\n",
	}
}

// NewFS creates an in-memory filesystem populated with files
func NewFS(t testing.TB, files map[string]string) types.FS {
	t.Helper()
	fsys := filesystem.NewMemoryFS()
	WriteFiles(t, fsys, files)
	return fsys
}

// WriteFiles writes files (absolute paths) into fsys, creating parents
func WriteFiles(t testing.TB, fsys types.FS, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := fsys.MkdirAll(path.Dir(name), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", path.Dir(name), err)
		}
		if err := fsys.WriteFile(name, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}
