package rulebook_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/rulebook/cmd/rulebook"
	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/paths"
	"github.com/arthur-debert/rulebook/pkg/testutil"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRules writes the sample tree into a temp rules directory and
// isolates config, data and log locations
func setupRules(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvDataDir, t.TempDir())

	root := t.TempDir()
	for name, content := range testutil.SampleTree(t) {
		target := filepath.Join(root, strings.TrimPrefix(name, testutil.RulesDir))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
		require.NoError(t, os.WriteFile(target, []byte(content), 0644))
	}
	return root
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rulebook.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTypesCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "types", "--rules-dir", dir, "--format", "json")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, categories.DefaultNames(), names)
}

func TestRulesCommand(t *testing.T) {
	dir := setupRules(t)

	t.Run("category", func(t *testing.T) {
		out, err := run(t, "", "rules", "security", "--rules-dir", dir, "--format", "json")
		require.NoError(t, err)

		var ruleSet types.RuleSet
		require.NoError(t, json.Unmarshal([]byte(out), &ruleSet))
		assert.Equal(t, testutil.SecurityRules(), ruleSet.Rules)
	})

	t.Run("rule", func(t *testing.T) {
		out, err := run(t, "", "rules", "security", "eval-use", "--rules-dir", dir, "--format", "json")
		require.NoError(t, err)

		var rule types.Rule
		require.NoError(t, json.Unmarshal([]byte(out), &rule))
		assert.Equal(t, testutil.EvalRule, rule)
	})

	t.Run("unknown_category", func(t *testing.T) {
		out, err := run(t, "", "rules", "style", "--rules-dir", dir, "--format", "json")
		require.ErrorIs(t, err, rulebook.ErrReported)

		var report types.ErrorReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "Unknown rule type: style", report.Error)
		assert.Equal(t, categories.DefaultNames(), report.AvailableTypes)
	})

	t.Run("missing_rule_text", func(t *testing.T) {
		out, err := run(t, "", "rules", "security", "eval-uses", "--rules-dir", dir, "--format", "text")
		require.ErrorIs(t, err, rulebook.ErrReported)
		assert.Contains(t, out, "Error: Rule not found: eval-uses")
		assert.Contains(t, out, "eval-use")
	})
}

func TestSearchCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "search", "todo", "--rules-dir", dir, "--format", "json")
	require.NoError(t, err)

	var report types.SearchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, types.SearchReport{"codequality": {testutil.TodoRule}}, report)
}

func TestAnalyzeCommand(t *testing.T) {
	dir := setupRules(t)

	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, "x = eval(input)\n", "analyze", "--type", "security", "--rules-dir", dir, "--format", "json")
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"security":[{"name":"eval-use","message":"Avoid eval","severity":"high"}]}`,
			out)
	})

	t.Run("file", func(t *testing.T) {
		source := filepath.Join(t.TempDir(), "app.py")
		require.NoError(t, os.WriteFile(source, []byte("# TODO: fix\n"), 0644))

		out, err := run(t, "", "analyze", source, "--rules-dir", dir, "--format", "json")
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"codequality":[{"name":"todo-comment","message":"Resolve TODO comments before merging","severity":"low"}]}`,
			out)
	})

	t.Run("checkstyle", func(t *testing.T) {
		out, err := run(t, "eval(x)", "analyze", "-", "--rules-dir", dir, "--format", "xml")
		require.NoError(t, err)
		assert.Contains(t, out, "<checkstyle")
		assert.Contains(t, out, `source="security/eval-use"`)
	})

	t.Run("unknown_type", func(t *testing.T) {
		out, err := run(t, "eval(x)", "analyze", "-t", "security", "-t", "style", "--rules-dir", dir, "--format", "json")
		require.ErrorIs(t, err, rulebook.ErrReported)
		assert.Contains(t, out, "Unknown rule type: style")
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := run(t, "", "analyze", filepath.Join(dir, "nope.js"), "--rules-dir", dir)
		require.Error(t, err)
		assert.NotErrorIs(t, err, rulebook.ErrReported)
	})
}

func TestTemplatesCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "templates", "--rules-dir", dir, "--format", "json")
	require.NoError(t, err)
	var listing types.TemplateListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, []string{"README.md"}, listing["markdown"])

	out, err = run(t, "", "templates", "sql_injection.py", "--rules-dir", dir, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "cursor.execute(query, params)\n", out)

	_, err = run(t, "", "templates", "../secrets", "--rules-dir", dir, "--format", "text")
	require.Error(t, err)
}

func TestExamplesCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "examples", "security", "--rules-dir", dir, "--format", "json")
	require.NoError(t, err)
	var examples map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &examples))
	assert.Contains(t, examples, "securityExamples.js")
	assert.Contains(t, examples, "python/sql_injection.py")

	out, err = run(t, "", "examples", "ddd", "--rules-dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"No examples found for rule type: ddd"}`, out)
}

func TestServeStdioCommand(t *testing.T) {
	dir := setupRules(t)

	stdin := `{"id":1,"method":"resources/read","params":{"uri":"rules://types"}}` + "\n"
	out, err := run(t, stdin, "serve", "--rules-dir", dir)
	require.NoError(t, err)

	var resp struct {
		ID     int      `json:"id"`
		Result []string `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, categories.DefaultNames(), resp.Result)
}

func TestInitCommand(t *testing.T) {
	dir := setupRules(t)
	target := filepath.Join(t.TempDir(), "fresh")

	out, err := run(t, "", "init", target, "--dry-run", "--rules-dir", dir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN MODE")
	assert.NoDirExists(t, target)

	out, err = run(t, "", "init", target, "--rules-dir", dir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.FileExists(t, filepath.Join(target, "codequality_rules.json"))
	assert.FileExists(t, filepath.Join(target, "scalability_rules.json"))
	assert.DirExists(t, filepath.Join(target, "templates", "securityExamplesPython"))

	out, err = run(t, "", "init", target, "--rules-dir", dir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "already has every starter file")
}

func TestGenConfigCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "genconfig", "--rules-dir", dir, "--engine", "re2")
	require.NoError(t, err)
	assert.Contains(t, out, "[matcher]")
	assert.Contains(t, out, "re2")
	assert.Contains(t, out, dir)
}

func TestVersionCommand(t *testing.T) {
	dir := setupRules(t)

	out, err := run(t, "", "version", "--rules-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "rulebook version")
	assert.Contains(t, out, "Engine: regexp2")
	assert.Contains(t, out, "(explicit)")
	assert.Contains(t, out, "Rules:  "+dir)
	assert.Contains(t, out, "Tmpl:   "+filepath.Join(dir, "templates"))

	out, err = run(t, "", "version", "--rules-dir", dir, "--engine", "re2")
	require.NoError(t, err)
	assert.Contains(t, out, "Engine: re2")
}

func TestInvalidFlags(t *testing.T) {
	dir := setupRules(t)

	_, err := run(t, "", "types", "--rules-dir", dir, "--format", "yaml")
	require.Error(t, err)

	_, err = run(t, "", "types", "--rules-dir", dir, "--engine", "pcre")
	require.Error(t, err)
}

func TestProjectConfigFile(t *testing.T) {
	dir := setupRules(t)
	configFile := filepath.Join(t.TempDir(), "rulebook.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
[rules]
categories = ["security", "performance"]
`), 0644))

	out, err := run(t, "", "types", "--rules-dir", dir, "--config", configFile, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["security","performance"]`, out)
}

func TestHelpTopics(t *testing.T) {
	setupRules(t)

	out, err := run(t, "", "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "engines")
	assert.Contains(t, out, "--format")

	out, err = run(t, "", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration")
}

func TestManCommand(t *testing.T) {
	setupRules(t)
	dir := filepath.Join(t.TempDir(), "man")

	_, err := run(t, "", "man", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "rulebook.1"))
	assert.FileExists(t, filepath.Join(dir, "rulebook-analyze.1"))
}
