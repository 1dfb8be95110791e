package tools

import "encoding/json"

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResult is the outcome of one ToolCall, correlated by CallID.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
	// Terminal is set when a terminal tool succeeded; Content is then the run's result.
	Terminal bool `json:"terminal,omitempty"`
}
