package memory

import "github.com/petasbytes/sasa/tools"

type TurnKind string

const (
	KindUser        TurnKind = "user"
	KindAssistant   TurnKind = "assistant"
	KindToolResults TurnKind = "tool_results"
)

type BlockType string

const (
	BlockText    BlockType = "text"
	BlockToolUse BlockType = "tool_use"
)

// Block is one element of an assistant response, in the order the model produced it.
type Block struct {
	Type BlockType       `json:"type"`
	Text string          `json:"text,omitempty"`
	Call *tools.ToolCall `json:"call,omitempty"`
}

type UserTurn struct {
	Text string `json:"text"`
}

type AssistantTurn struct {
	Blocks []Block `json:"blocks"`
}

// ToolCalls returns the tool_use blocks in order.
func (a *AssistantTurn) ToolCalls() []tools.ToolCall {
	var calls []tools.ToolCall
	for _, b := range a.Blocks {
		if b.Type == BlockToolUse && b.Call != nil {
			calls = append(calls, *b.Call)
		}
	}
	return calls
}

// Text concatenates the text blocks, separated by newlines.
func (a *AssistantTurn) Text() string {
	var s string
	for _, b := range a.Blocks {
		if b.Type != BlockText || b.Text == "" {
			continue
		}
		if s != "" {
			s += "\n"
		}
		s += b.Text
	}
	return s
}

type ToolResultsTurn struct {
	Results []tools.ToolResult `json:"results"`
}

// Turn is a tagged variant; exactly one of User, Assistant or ToolResults is
// set, matching Kind.
type Turn struct {
	Kind        TurnKind         `json:"kind"`
	User        *UserTurn        `json:"user,omitempty"`
	Assistant   *AssistantTurn   `json:"assistant,omitempty"`
	ToolResults *ToolResultsTurn `json:"tool_results,omitempty"`
}

func NewUserTurn(text string) Turn {
	return Turn{Kind: KindUser, User: &UserTurn{Text: text}}
}

func NewAssistantTurn(blocks ...Block) Turn {
	return Turn{Kind: KindAssistant, Assistant: &AssistantTurn{Blocks: blocks}}
}

func NewToolResultsTurn(results ...tools.ToolResult) Turn {
	return Turn{Kind: KindToolResults, ToolResults: &ToolResultsTurn{Results: results}}
}

func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

func ToolUseBlock(call tools.ToolCall) Block {
	return Block{Type: BlockToolUse, Call: &call}
}
