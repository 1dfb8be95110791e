package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/sasa/internal/provider"
	"github.com/petasbytes/sasa/internal/telemetry"
	"github.com/petasbytes/sasa/internal/windowing"
	"github.com/petasbytes/sasa/memory"
	"github.com/petasbytes/sasa/tools"
)

const DefaultMaxIterations = 10

// Runner holds configuration only; every Run owns its conversation and
// iteration counter, so a Runner may serve independent runs concurrently.
type Runner struct {
	client        *anthropic.Client
	exec          *tools.Executor
	sdkTools      []anthropic.ToolUnionParam
	model         anthropic.Model
	maxTokens     int64
	maxIterations int
	modelTimeout  time.Duration
	inputBudget   int
	counter       windowing.TokenCounter
	logger        *slog.Logger
	sink          *telemetry.Sink
	observer      Observer
}

type Option func(*Runner)

func WithModel(m string) Option {
	return func(r *Runner) {
		if m != "" {
			r.model = anthropic.Model(m)
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTokens = int64(n)
		}
	}
}

func WithMaxIterations(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// WithModelTimeout bounds each model call. Zero means no per-call limit.
func WithModelTimeout(d time.Duration) Option {
	return func(r *Runner) { r.modelTimeout = d }
}

// WithInputBudget fails a run before any request whose estimated input
// exceeds n tokens. Zero disables the check.
func WithInputBudget(n int) Option {
	return func(r *Runner) { r.inputBudget = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithTelemetry(s *telemetry.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

func New(client *anthropic.Client, exec *tools.Executor, opts ...Option) *Runner {
	r := &Runner{
		client:        client,
		exec:          exec,
		sdkTools:      tools.SDKTools(exec.Definitions()),
		model:         provider.DefaultModel,
		maxTokens:     provider.DefaultMaxTokens,
		maxIterations: DefaultMaxIterations,
		counter:       windowing.HeuristicCounter{},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:      NopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run is the mutable state of a single Run call.
type run struct {
	id    string
	conv  *memory.Conversation
	state State
	out   Outcome
}

// Run executes task until task_complete succeeds, the iteration limit is
// reached or a fatal error occurs. Exhaustion is reported through
// Outcome.State with a nil error.
func (r *Runner) Run(ctx context.Context, task string) (Outcome, error) {
	st := &run{
		id:    telemetry.NewRunID(),
		conv:  memory.NewConversation(),
		state: StateThinking,
	}
	st.conv.Seed(task)
	st.out.RunID = st.id
	ctx = telemetry.WithRunID(ctx, st.id)

	log := r.logger.With("run_id", st.id)
	log.Info("run started", "model", string(r.model), "max_iterations", r.maxIterations)
	r.sink.EmitRunStarted(ctx, task, string(r.model), r.maxIterations)

	for {
		if st.out.Iterations >= r.maxIterations {
			return r.finish(st, StateExhausted, "", nil)
		}
		if err := ctx.Err(); err != nil {
			return r.finish(st, StateFailed, "", err)
		}
		st.out.Iterations++
		st.state = StateThinking
		r.observer.OnIteration(st.out.Iterations, r.maxIterations)

		msg, err := r.callModel(ctx, st)
		if err != nil {
			return r.finish(st, StateFailed, "", err)
		}

		st.state = StateActing
		turn, results, done := r.act(ctx, st, msg)
		if done != nil {
			return r.finish(st, StateCompleted, done.Content, nil)
		}

		if len(turn.Assistant.Blocks) > 0 {
			if err := st.conv.Append(turn); err != nil {
				return r.finish(st, StateFailed, "", err)
			}
		} else {
			log.Warn("empty model response not recorded", "iteration", st.out.Iterations)
		}
		if len(results) > 0 {
			if err := st.conv.Append(memory.NewToolResultsTurn(results...)); err != nil {
				return r.finish(st, StateFailed, "", err)
			}
		}
	}
}

// callModel audits the history and sends it in full.
func (r *Runner) callModel(ctx context.Context, st *run) (*anthropic.Message, error) {
	msgs := st.conv.Messages()
	stats, err := windowing.Inspect(msgs, r.inputBudget, r.counter)
	r.sink.Emit("request_prepared", map[string]any{
		"run_id":          st.id,
		"iteration":       st.out.Iterations,
		"messages":        stats.Messages,
		"groups":          stats.Groups,
		"pairs":           stats.Pairs,
		"total_estimated": stats.Estimated,
		"budget":          stats.Budget,
	})
	if err != nil {
		return nil, err
	}

	if r.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.modelTimeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages:  msgs,
		Tools:     r.sdkTools,
	})
	if err != nil {
		return nil, newTransportError(err)
	}

	r.logger.Debug("model response",
		"run_id", st.id,
		"state", string(st.state),
		"iteration", st.out.Iterations,
		"stop_reason", string(msg.StopReason),
		"blocks", len(msg.Content),
		"duration", time.Since(start),
	)
	r.sink.Emit("model_response", map[string]any{
		"run_id":        st.id,
		"iteration":     st.out.Iterations,
		"stop_reason":   string(msg.StopReason),
		"blocks":        len(msg.Content),
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return msg, nil
}

// act walks the response blocks in order. It returns the assistant turn and
// the results of every executed call, or the terminal result when
// task_complete succeeded.
func (r *Runner) act(ctx context.Context, st *run, msg *anthropic.Message) (memory.Turn, []tools.ToolResult, *tools.ToolResult) {
	var blocks []memory.Block
	var results []tools.ToolResult

	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text == "" {
				continue
			}
			r.observer.OnText(v.Text)
			blocks = append(blocks, memory.TextBlock(v.Text))
		case anthropic.ToolUseBlock:
			call := tools.ToolCall{ID: v.ID, Name: v.Name, Input: json.RawMessage(v.JSON.Input.Raw())}
			blocks = append(blocks, memory.ToolUseBlock(call))

			r.observer.OnToolCall(call)
			res := r.exec.Execute(ctx, call)
			r.observer.OnToolResult(call, res)

			if res.Terminal && !res.IsError {
				return memory.Turn{}, nil, &res
			}
			results = append(results, res)
		default:
			r.logger.Debug("ignoring content block", "run_id", st.id, "type", fmt.Sprintf("%T", v))
		}
	}
	return memory.NewAssistantTurn(blocks...), results, nil
}

func (r *Runner) finish(st *run, state State, result string, err error) (Outcome, error) {
	st.state = state
	st.out.State = state
	st.out.Result = result
	st.out.Transcript = st.conv.Snapshot()

	fields := map[string]any{
		"run_id":     st.id,
		"state":      string(state),
		"iterations": st.out.Iterations,
		"turns":      len(st.out.Transcript),
		"error":      nil,
	}
	if err != nil {
		fields["error"] = err.Error()
		r.logger.Error("run failed", "run_id", st.id, "iterations", st.out.Iterations, "err", err)
	} else {
		r.logger.Info("run finished", "run_id", st.id, "state", string(state), "iterations", st.out.Iterations)
	}
	r.sink.Emit("run_finished", fields)
	r.observer.OnFinish(st.out)
	return st.out, err
}
