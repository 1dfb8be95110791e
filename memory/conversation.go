package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/sasa/tools"
)

var (
	// ErrUnpairedResults is returned when a tool_results turn does not answer
	// exactly the calls of the preceding assistant turn.
	ErrUnpairedResults = errors.New("memory: tool results do not match preceding tool calls")
	ErrInvalidTurn     = errors.New("memory: invalid turn")
)

const instructions = `You are a task automation agent. Break down and execute the following task step by step using the available tools.

Task: %s

Important guidelines:
1. Think through the task and break it into logical steps
2. Use the available tools to accomplish each step
3. When you've completed the task, use the task_complete tool with a summary
4. Be methodical and explain your reasoning`

// SeedText renders the opening user message for task.
func SeedText(task string) string {
	return fmt.Sprintf(instructions, task)
}

// Conversation is the ordered history of one run. It is not safe for
// concurrent use; each run owns its own.
type Conversation struct {
	turns []Turn
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// Seed resets the conversation to a single user turn carrying the operating
// instructions and task.
func (c *Conversation) Seed(task string) {
	c.turns = []Turn{NewUserTurn(SeedText(task))}
}

// Append adds t to the end of the history.
func (c *Conversation) Append(t Turn) error {
	if err := checkShape(t); err != nil {
		return err
	}
	if t.Kind == KindToolResults {
		if err := c.checkPairing(t.ToolResults.Results); err != nil {
			return err
		}
	}
	c.turns = append(c.turns, t)
	return nil
}

func checkShape(t Turn) error {
	var ok bool
	switch t.Kind {
	case KindUser:
		ok = t.User != nil && t.Assistant == nil && t.ToolResults == nil
	case KindAssistant:
		ok = t.Assistant != nil && t.User == nil && t.ToolResults == nil
	case KindToolResults:
		ok = t.ToolResults != nil && t.User == nil && t.Assistant == nil
	}
	if !ok {
		return fmt.Errorf("%w: kind %q", ErrInvalidTurn, t.Kind)
	}
	return nil
}

// checkPairing requires results to answer the preceding assistant turn's
// calls one for one, in call order.
func (c *Conversation) checkPairing(results []tools.ToolResult) error {
	if len(c.turns) == 0 || c.turns[len(c.turns)-1].Kind != KindAssistant {
		return fmt.Errorf("%w: no preceding assistant turn", ErrUnpairedResults)
	}
	calls := c.turns[len(c.turns)-1].Assistant.ToolCalls()
	if len(calls) == 0 || len(calls) != len(results) {
		return fmt.Errorf("%w: %d calls, %d results", ErrUnpairedResults, len(calls), len(results))
	}
	for i, call := range calls {
		if results[i].CallID != call.ID {
			return fmt.Errorf("%w: result %d answers %q, want %q", ErrUnpairedResults, i, results[i].CallID, call.ID)
		}
	}
	return nil
}

// Len returns the number of turns.
func (c *Conversation) Len() int { return len(c.turns) }

// Snapshot returns a copy of the turns. Turn payloads are shared and must not be mutated.
func (c *Conversation) Snapshot() []Turn {
	return append([]Turn(nil), c.turns...)
}

// Messages renders the full history as Messages API params, oldest first.
func (c *Conversation) Messages() []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(c.turns))
	for _, t := range c.turns {
		out = append(out, toMessageParam(t))
	}
	return out
}

func toMessageParam(t Turn) anthropic.MessageParam {
	switch t.Kind {
	case KindAssistant:
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(t.Assistant.Blocks))
		for _, b := range t.Assistant.Blocks {
			switch {
			case b.Type == BlockText && b.Text != "":
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case b.Type == BlockToolUse && b.Call != nil:
				input := b.Call.Input
				if len(input) == 0 {
					input = json.RawMessage(`{}`)
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(b.Call.ID, input, b.Call.Name))
			}
		}
		return anthropic.NewAssistantMessage(blocks...)
	case KindToolResults:
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(t.ToolResults.Results))
		for _, r := range t.ToolResults.Results {
			blocks = append(blocks, anthropic.NewToolResultBlock(r.CallID, r.Content, r.IsError))
		}
		return anthropic.NewUserMessage(blocks...)
	default:
		return anthropic.NewUserMessage(anthropic.NewTextBlock(t.User.Text))
	}
}

// WriteTranscript writes turns to path as indented JSON.
func WriteTranscript(path string, turns []Turn) error {
	b, err := json.MarshalIndent(turns, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
