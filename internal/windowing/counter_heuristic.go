package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m anthropic.MessageParam) int
	CountGroup(g Group, all []anthropic.MessageParam) int
}

// HeuristicCounter is a deterministic estimator.
// Rules:
// - text blocks: rune count of TextBlockParam.Text
// - tool_use blocks: runes of the name plus the JSON-encoded input
// - tool_result blocks:
//   - nested ([]anthropic.ToolResultBlockParamContentUnion): sum nested text runes
//   - otherwise 0
//     Every block adds a small fixed overhead for formatting.
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts; changing this requires updating the guard test.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

// Helpers

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}

	if tu := blk.OfToolUse; tu != nil {
		n := utf8.RuneCountInString(tu.Name)
		if tu.Input != nil {
			if raw, err := json.Marshal(tu.Input); err == nil {
				n += utf8.RuneCount(raw)
			}
		}
		return n + blockOverhead
	}

	if tr := blk.OfToolResult; tr != nil {
		subtotal := 0
		for _, nb := range tr.Content {
			if nt := nb.OfText; nt != nil {
				subtotal += utf8.RuneCountInString(nt.Text)
			}
		}
		return subtotal + blockOverhead
	}

	// Other block kinds (thinking, images, documents) count overhead only.
	return blockOverhead
}
