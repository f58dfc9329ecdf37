package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompose_Instruction(t *testing.T) {
	out, err := run(t, "compose", "-i", "Do X")
	require.NoError(t, err)
	assert.Equal(t, "Do X\n", out)
}

func TestCompose_File(t *testing.T) {
	path := writeFile(t, "prompt.yaml", "instruction: Do X\nexamples:\n  - input: in1\n    output: out1\n")
	out, err := run(t, "compose", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "Do X\nExample Input: in1\nExample Output: out1\n", out)
}

func TestCompose_RequiresPrompt(t *testing.T) {
	_, err := run(t, "compose")
	assert.Error(t, err)

	_, err = run(t, "compose", "-i", "x", "-f", "y.yaml")
	assert.Error(t, err)
}

type printedSpec struct {
	URL     string `json:"url"`
	Method  string `json:"method"`
	Headers []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"headers"`
	Body json.RawMessage `json:"body"`
}

func TestChat_PrintsRedactedSpec(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-cli-secret")

	out, err := run(t, "chat", "-i", "hello")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-cli-secret")

	var spec printedSpec
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", spec.URL)
	assert.Equal(t, "Bearer ***", spec.Headers[0].Value)
	assert.JSONEq(t, `{"model":"gpt-3.5-turbo","messages":[{"role":"user","content":"hello"}],"temperature":0.7}`, string(spec.Body))
}

func TestComplete_UsesConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "provider:\n  api_version: 3\ncompletion:\n  max_tokens: 12\n  stop: [\"END\"]\n")

	out, err := run(t, "--config", cfgPath, "complete", "-i", "Once")
	require.NoError(t, err)

	var spec printedSpec
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	assert.Equal(t, "https://api.openai.com/v3/engines/davinci/completions", spec.URL)
	assert.JSONEq(t, `{"prompt":"Once","max_tokens":12,"n":1,"stop":["END"]}`, string(spec.Body))
}

func TestModels_Send(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"object":"list"}`)
	}))
	defer srv.Close()

	t.Setenv("AIAPI_CLI_TEST_KEY", "sk-send")
	cfgPath := writeFile(t, "config.yaml", "provider:\n  base_url: "+srv.URL+"\n  api_key_env: AIAPI_CLI_TEST_KEY\n")

	out, err := run(t, "-c", cfgPath, "models", "--send")
	require.NoError(t, err)
	assert.Equal(t, "{\"object\":\"list\"}\n", out)
	assert.Equal(t, "Bearer sk-send", gotAuth)
	assert.Equal(t, "/v1/models", gotPath)
}

func TestGoal(t *testing.T) {
	out, err := run(t, "goal", "learn", "to", "sail")
	require.NoError(t, err)
	assert.Contains(t, out, "learn to sail")

	_, err = run(t, "goal")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "server:\n  port: -1\n")
	_, err := run(t, "-c", cfgPath, "compose", "-i", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestEndpoint(t *testing.T) {
	out, err := run(t, "endpoint", "chat")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions\n", out)

	out, err = run(t, "endpoint", "davinci", "--version", "4")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v4/engines/davinci/completions\n", out)

	cfgPath := writeFile(t, "config.yaml", "provider:\n  base_url: http://localhost:4000\n  api_version: 2\n")
	out, err = run(t, "-c", cfgPath, "endpoint", "model-listing")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/v2/models\n", out)
}

func TestEndpoint_UnknownKind(t *testing.T) {
	_, err := run(t, "endpoint", "embeddings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown endpoint kind")
}

func TestCollidingHeadersRejected(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "provider:\n  headers:\n    x-trace: a\n    X-TRACE: b\n")
	_, err := run(t, "-c", cfgPath, "chat", "-i", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both name X-Trace")
}
