package runner_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petasbytes/sasa/internal/provider"
	"github.com/petasbytes/sasa/internal/runner"
	"github.com/petasbytes/sasa/tools"
)

// scripted is a fake model endpoint. respond is called with the 1-based
// request number and returns the HTTP status and JSON body.
type scripted struct {
	mu      sync.Mutex
	bodies  [][]byte
	respond func(n int) (int, string)
}

func (s *scripted) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()

	s.mu.Lock()
	s.bodies = append(s.bodies, b)
	n := len(s.bodies)
	s.mu.Unlock()

	status, body := s.respond(n)
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func (s *scripted) request(t *testing.T, n int) sentRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.GreaterOrEqual(t, len(s.bodies), n, "request %d was not sent", n)
	var r sentRequest
	require.NoError(t, json.Unmarshal(s.bodies[n-1], &r), "body=%s", s.bodies[n-1])
	return r
}

// sequence answers request i with responses[i-1] and fails the test past the end.
func sequence(t *testing.T, responses ...string) *scripted {
	return &scripted{respond: func(n int) (int, string) {
		if n > len(responses) {
			t.Errorf("unexpected model call %d", n)
			return http.StatusInternalServerError, `{"type":"error","error":{"type":"api_error","message":"script exhausted"}}`
		}
		return http.StatusOK, responses[n-1]
	}}
}

func always(body string) *scripted {
	return &scripted{respond: func(int) (int, string) { return http.StatusOK, body }}
}

type sentRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Tools     []struct {
		Name string `json:"name"`
	} `json:"tools"`
	Messages []struct {
		Role    string        `json:"role"`
		Content []contentItem `json:"content"`
	} `json:"messages"`
}

type contentItem struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// resultText returns the text of a tool_result block, whether sent as a
// string or as nested text blocks.
func (c contentItem) resultText() string {
	var s string
	if json.Unmarshal(c.Content, &s) == nil {
		return s
	}
	var nested []struct {
		Text string `json:"text"`
	}
	_ = json.Unmarshal(c.Content, &nested)
	var out string
	for _, n := range nested {
		out += n.Text
	}
	return out
}

func message(blocks ...map[string]any) string {
	stop := "end_turn"
	for _, b := range blocks {
		if b["type"] == "tool_use" {
			stop = "tool_use"
		}
	}
	if blocks == nil {
		blocks = []map[string]any{}
	}
	b, err := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         string(provider.DefaultModel),
		"content":       blocks,
		"stop_reason":   stop,
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func text(s string) map[string]any {
	return map[string]any{"type": "text", "text": s}
}

func use(id, name string, input map[string]any) map[string]any {
	return map[string]any{"type": "tool_use", "id": id, "name": name, "input": input}
}

func complete(id, result string) map[string]any {
	return use(id, tools.TaskCompleteName, map[string]any{"result": result})
}

func newRunner(t *testing.T, tr http.RoundTripper, opts ...runner.Option) *runner.Runner {
	t.Helper()
	client := provider.NewAnthropicClient(provider.Options{
		APIKey:     "test-key",
		BaseURL:    "http://model.test",
		HTTPClient: &http.Client{Transport: tr},
	})
	exec, err := tools.NewExecutor(tools.Registry(), tools.DefaultEnv())
	require.NoError(t, err)
	return runner.New(client, exec, opts...)
}

type recorder struct {
	iterations []int
	texts      []string
	calls      []string
	results    []tools.ToolResult
	finished   []runner.Outcome
}

func (r *recorder) OnIteration(n, _ int)        { r.iterations = append(r.iterations, n) }
func (r *recorder) OnText(s string)             { r.texts = append(r.texts, s) }
func (r *recorder) OnToolCall(c tools.ToolCall) { r.calls = append(r.calls, c.Name) }
func (r *recorder) OnToolResult(_ tools.ToolCall, res tools.ToolResult) {
	r.results = append(r.results, res)
}
func (r *recorder) OnFinish(o runner.Outcome) { r.finished = append(r.finished, o) }
