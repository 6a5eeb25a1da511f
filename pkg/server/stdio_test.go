package server_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/rulebook/pkg/server"
	"github.com/arthur-debert/rulebook/pkg/testutil"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponses(t *testing.T, out []byte) []map[string]json.RawMessage {
	t.Helper()
	var responses []map[string]json.RawMessage
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp), scanner.Text())
		responses = append(responses, resp)
	}
	return responses
}

func TestStdioServe(t *testing.T) {
	input := strings.Join([]string{
		`{"id":1,"method":"resources/read","params":{"uri":"rules://security/eval-use"}}`,
		``,
		`{"id":2,"method":"tools/call","params":{"name":"analyze_code","arguments":{"code":"eval(x)"}}}`,
		`{"id":"three","method":"tools/list"}`,
		`{"id":4,"method":"resources/read","params":{"uri":"rules://style"}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	err := server.NewStdio(newDispatcher(t)).Serve(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	responses := decodeResponses(t, out.Bytes())
	require.Len(t, responses, 4)

	assert.JSONEq(t, `1`, string(responses[0]["id"]))
	var rule types.Rule
	require.NoError(t, json.Unmarshal(responses[0]["result"], &rule))
	assert.Equal(t, testutil.EvalRule, rule)

	assert.JSONEq(t,
		`{"security":[{"name":"eval-use","message":"Avoid eval","severity":"high"}]}`,
		string(responses[1]["result"]))

	assert.JSONEq(t, `"three"`, string(responses[2]["id"]))
	var tools []map[string]interface{}
	require.NoError(t, json.Unmarshal(responses[2]["result"], &tools))
	assert.Len(t, tools, 3)

	var report types.ErrorReport
	require.NoError(t, json.Unmarshal(responses[3]["result"], &report))
	assert.Equal(t, "Unknown rule type: style", report.Error)
	assert.NotContains(t, responses[3], "error")
}

func TestStdioHandleErrors(t *testing.T) {
	s := server.NewStdio(newDispatcher(t))

	tests := []struct {
		name string
		line string
		code int
	}{
		{"parse_error", `{"id":1,`, server.CodeParseError},
		{"missing_method", `{"id":1}`, server.CodeInvalidRequest},
		{"unknown_method", `{"id":1,"method":"prompts/list"}`, server.CodeMethodNotFound},
		{"missing_params", `{"id":1,"method":"resources/read"}`, server.CodeInvalidParams},
		{"bad_params", `{"id":1,"method":"tools/call","params":[1]}`, server.CodeInvalidParams},
		{"unknown_uri", `{"id":1,"method":"resources/read","params":{"uri":"ftp://x"}}`, server.CodeMethodNotFound},
		{"unknown_tool", `{"id":1,"method":"tools/call","params":{"name":"nope","arguments":{}}}`, server.CodeMethodNotFound},
		{"missing_argument", `{"id":1,"method":"tools/call","params":{"name":"search_rules","arguments":{}}}`, server.CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Handle([]byte(tt.line))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
			assert.Nil(t, resp.Result)
		})
	}
}

func TestStdioParseErrorHasNullID(t *testing.T) {
	resp := server.NewStdio(newDispatcher(t)).Handle([]byte("not json"))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":null`)
}

func TestStdioStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.NewStdio(newDispatcher(t)).Serve(ctx, pr, io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not stop after cancel")
	}
}
