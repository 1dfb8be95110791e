package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/petasbytes/sasa/internal/metrics"
	"github.com/petasbytes/sasa/internal/telemetry"
)

// Executor performs tool calls against a fixed set of definitions.
// It holds no per-run state and may be shared between runs.
type Executor struct {
	defs       []ToolDefinition
	validators map[string]*jsonschema.Schema
	env        Env
	logger     *slog.Logger
	sink       *telemetry.Sink
}

type ExecutorOption func(*Executor)

// WithLogger sets the structured logger used for per-call diagnostics.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithTelemetry enables tool_exec events.
func WithTelemetry(s *telemetry.Sink) ExecutorOption {
	return func(x *Executor) { x.sink = s }
}

// NewExecutor compiles every definition's input schema once. Duplicate names
// and schemas that fail to compile are rejected.
func NewExecutor(defs []ToolDefinition, env Env, opts ...ExecutorOption) (*Executor, error) {
	x := &Executor{
		defs:       append([]ToolDefinition(nil), defs...),
		validators: make(map[string]*jsonschema.Schema, len(defs)),
		env:        env,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(x)
	}

	compiler := jsonschema.NewCompiler()
	for _, d := range defs {
		if _, dup := x.validators[d.Name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool name %q", d.Name)
		}
		if d.Function == nil {
			return nil, fmt.Errorf("tools: %s has no function", d.Name)
		}
		sch, err := compileSchema(compiler, d)
		if err != nil {
			return nil, fmt.Errorf("tools: compile schema for %s: %w", d.Name, err)
		}
		x.validators[d.Name] = sch
	}
	return x, nil
}

func compileSchema(c *jsonschema.Compiler, d ToolDefinition) (*jsonschema.Schema, error) {
	if d.Schema == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d.Schema)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	loc := "tool-" + d.Name + ".json"
	if err := c.AddResource(loc, doc); err != nil {
		return nil, err
	}
	return c.Compile(loc)
}

// Definitions returns the definitions the executor was built with.
func (x *Executor) Definitions() []ToolDefinition {
	return append([]ToolDefinition(nil), x.defs...)
}

// Execute performs exactly one tool call. Every failure, including an unknown
// tool name, invalid input or a panicking handler, is returned as an error
// result rather than propagated.
func (x *Executor) Execute(ctx context.Context, call ToolCall) (res ToolResult) {
	start := time.Now()
	runID, _ := telemetry.RunIDFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			res = errorResult(call, &Error{Kind: KindExec, Err: fmt.Errorf("panic: %v", r)})
		}
		x.record(runID, call, res, time.Since(start))
	}()

	def, ok := Lookup(x.defs, call.Name)
	if !ok {
		return errorResult(call, &Error{Kind: KindUnknownTool, Err: fmt.Errorf("unknown tool: %s", call.Name)})
	}

	input := call.Input
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage(`{}`)
	}
	if err := x.validate(def.Name, input); err != nil {
		return errorResult(call, err)
	}

	out, err := def.Function(ctx, x.env, input)
	if err != nil {
		return errorResult(call, err)
	}
	return ToolResult{
		CallID:   call.ID,
		Name:     call.Name,
		Content:  out,
		Terminal: def.Terminal,
	}
}

func (x *Executor) validate(name string, input json.RawMessage) error {
	sch := x.validators[name]
	if sch == nil {
		return nil
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(input))
	if err != nil {
		return &Error{Kind: KindSchema, Err: fmt.Errorf("malformed input: %w", err)}
	}
	if err := sch.Validate(inst); err != nil {
		return &Error{Kind: KindSchema, Err: errors.New(validationMessage(err))}
	}
	return nil
}

// validationMessage drops the schema location header and joins the causes on one line.
func validationMessage(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "-"))
	}
	return "invalid input: " + strings.Join(lines, "; ")
}

func errorResult(call ToolCall, err error) ToolResult {
	return ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: "Error: " + err.Error(),
		IsError: true,
		Kind:    KindOf(err),
	}
}

// record emits a tool_exec event without raw payloads and logs the call.
func (x *Executor) record(runID string, call ToolCall, res ToolResult, d time.Duration) {
	fields := map[string]any{
		"run_id":      runID,
		"tool_name":   call.Name,
		"duration_ms": d.Milliseconds(),
		"input_size":  len(call.Input),
		"output_size": 0,
		"error":       nil,
	}
	if res.IsError {
		fields["error"] = string(res.Kind)
	} else {
		fields["output_size"] = len(res.Content)
		fields["output_lines"] = metrics.CountFeatures(res.Content).Lines
	}
	x.sink.Emit("tool_exec", fields)

	if res.IsError {
		x.logger.Warn("tool failed", "run_id", runID, "tool", call.Name, "call_id", call.ID, "kind", res.Kind, "duration", d)
		return
	}
	x.logger.Debug("tool executed", "run_id", runID, "tool", call.Name, "call_id", call.ID, "bytes", len(res.Content), "duration", d)
}
