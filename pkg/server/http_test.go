package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/dispatcher"
	"github.com/arthur-debert/rulebook/pkg/server"
	"github.com/arthur-debert/rulebook/pkg/testutil"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	service, _ := testutil.NewService(t, testutil.SampleTree(t))
	return dispatcher.New(service)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(server.NewHTTP(newDispatcher(t)).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	return resp.StatusCode, body
}

func post(t *testing.T, ts *httptest.Server, path, body string) (int, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHTTPHealth(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, status)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, true, health["ok"])
}

func TestHTTPRuleRoutes(t *testing.T) {
	ts := newTestServer(t)

	t.Run("types", func(t *testing.T) {
		status, body := get(t, ts, "/v1/rules/types")
		require.Equal(t, http.StatusOK, status)

		var names []string
		require.NoError(t, json.Unmarshal(body, &names))
		assert.Equal(t, categories.DefaultNames(), names)
	})

	t.Run("category", func(t *testing.T) {
		status, body := get(t, ts, "/v1/rules/security")
		require.Equal(t, http.StatusOK, status)

		var ruleSet types.RuleSet
		require.NoError(t, json.Unmarshal(body, &ruleSet))
		assert.Equal(t, testutil.SecurityRules(), ruleSet.Rules)
	})

	t.Run("unknown_category_is_a_report", func(t *testing.T) {
		status, body := get(t, ts, "/v1/rules/style")
		require.Equal(t, http.StatusOK, status)

		var report types.ErrorReport
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "Unknown rule type: style", report.Error)
		assert.Equal(t, categories.DefaultNames(), report.AvailableTypes)
	})

	t.Run("rule", func(t *testing.T) {
		status, body := get(t, ts, "/v1/rules/security/eval-use")
		require.Equal(t, http.StatusOK, status)

		var rule types.Rule
		require.NoError(t, json.Unmarshal(body, &rule))
		assert.Equal(t, testutil.EvalRule, rule)
	})

	t.Run("missing_rule", func(t *testing.T) {
		status, body := get(t, ts, "/v1/rules/security/nope")
		require.Equal(t, http.StatusOK, status)

		var report types.ErrorReport
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "Rule not found: nope", report.Error)
	})
}

func TestHTTPResourceByURI(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/v1/resources?uri=rules://codequality")
	require.Equal(t, http.StatusOK, status)
	var ruleSet types.RuleSet
	require.NoError(t, json.Unmarshal(body, &ruleSet))
	assert.Equal(t, testutil.CodeQualityRules(), ruleSet.Rules)

	status, _ = get(t, ts, "/v1/resources?uri=ftp://x")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get(t, ts, "/v1/resources")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = get(t, ts, "/v1/resources/list")
	require.Equal(t, http.StatusOK, status)
	var resources []dispatcher.ResourceDescriptor
	require.NoError(t, json.Unmarshal(body, &resources))
	assert.Len(t, resources, len(dispatcher.Resources()))
}

func TestHTTPTemplateRoutes(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/v1/templates")
	require.Equal(t, http.StatusOK, status)
	var listing types.TemplateListing
	require.NoError(t, json.Unmarshal(body, &listing))
	assert.Equal(t, []string{"command_injection.py", "sql_injection.py"}, listing["python"])

	status, body = get(t, ts, "/v1/templates/README.md")
	require.Equal(t, http.StatusOK, status)
	var content string
	require.NoError(t, json.Unmarshal(body, &content))
	assert.Equal(t, "# Templates\n\nStarter files.\n", content)

	status, body = get(t, ts, "/v1/templates/nope.js")
	require.Equal(t, http.StatusOK, status)
	var report types.ErrorReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "Template not found: nope.js", report.Error)
}

func TestHTTPTools(t *testing.T) {
	ts := newTestServer(t)

	t.Run("analyze", func(t *testing.T) {
		status, body := post(t, ts, "/v1/tools/analyze_code",
			`{"code":"x = eval(input)","rule_types":["security"]}`)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t,
			`{"security":[{"name":"eval-use","message":"Avoid eval","severity":"high"}]}`,
			string(body))
	})

	t.Run("analyze_unknown_category_is_a_report", func(t *testing.T) {
		status, body := post(t, ts, "/v1/tools/analyze_code",
			`{"code":"eval(x)","rule_types":["security","style"]}`)
		require.Equal(t, http.StatusOK, status)

		var report types.ErrorReport
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "Unknown rule type: style", report.Error)
	})

	t.Run("search", func(t *testing.T) {
		status, body := post(t, ts, "/v1/tools/search_rules", `{"keyword":"TODO"}`)
		require.Equal(t, http.StatusOK, status)

		var report types.SearchReport
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, []types.Rule{testutil.TodoRule}, report["codequality"])
	})

	t.Run("malformed_body", func(t *testing.T) {
		status, body := post(t, ts, "/v1/tools/search_rules", `{"keyword":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "INVALID_INPUT")
	})

	t.Run("missing_argument", func(t *testing.T) {
		status, _ := post(t, ts, "/v1/tools/search_rules", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown_tool", func(t *testing.T) {
		status, body := post(t, ts, "/v1/tools/format_code", `{}`)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Contains(t, string(body), "NOT_FOUND")
	})

	t.Run("list", func(t *testing.T) {
		status, body := get(t, ts, "/v1/tools")
		require.Equal(t, http.StatusOK, status)
		var tools []dispatcher.ToolDescriptor
		require.NoError(t, json.Unmarshal(body, &tools))
		assert.Len(t, tools, 3)
	})
}

func TestHTTPUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	status, _ := get(t, ts, "/v2/anything")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHTTPServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.NewHTTP(newDispatcher(t)).Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(server.ShutdownTimeout + time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestHTTPPercentInNames(t *testing.T) {
	coverage := types.Rule{Name: "100%-coverage", Pattern: "skip", Message: "Do not skip tests", Severity: "low"}
	files := testutil.SampleTree(t)
	files[testutil.RulesFile("testing")] = testutil.RuleSetJSON(t, coverage)
	files[testutil.TemplatesDir+"/50%off.md"] = "half\n"

	service, _ := testutil.NewService(t, files)
	ts := httptest.NewServer(server.NewHTTP(dispatcher.New(service)).Routes())
	t.Cleanup(ts.Close)

	status, body := get(t, ts, "/v1/rules/testing/100%25-coverage")
	require.Equal(t, http.StatusOK, status, string(body))
	var rule types.Rule
	require.NoError(t, json.Unmarshal(body, &rule))
	assert.Equal(t, coverage, rule)

	status, body = get(t, ts, "/v1/rules/testing/99%25-coverage")
	require.Equal(t, http.StatusOK, status, string(body))
	var report types.ErrorReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "Rule not found: 99%-coverage", report.Error)

	status, body = get(t, ts, "/v1/templates/50%25off.md")
	require.Equal(t, http.StatusOK, status, string(body))
	var content string
	require.NoError(t, json.Unmarshal(body, &content))
	assert.Equal(t, "half\n", content)
}
