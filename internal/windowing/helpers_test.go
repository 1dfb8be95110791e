package windowing_test

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

func textBlock(s string) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{OfText: &anthropic.TextBlockParam{Text: s}}
}

// useBlock is a tool_use with no name or input; grouping only looks at ids.
func useBlock(id string) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{ID: id}}
}

func resultBlock(id string, isErr bool) anthropic.ContentBlockParamUnion {
	tr := anthropic.ToolResultBlockParam{ToolUseID: id}
	if isErr {
		tr.IsError = param.NewOpt(true)
	}
	return anthropic.ContentBlockParamUnion{OfToolResult: &tr}
}

func resultText(id, s string) anthropic.ContentBlockParamUnion {
	return anthropic.NewToolResultBlock(id, s, false)
}

// resultNested wraps text blocks as tool_result content. Non-text blocks are dropped.
func resultNested(id string, nested []anthropic.ContentBlockParamUnion) anthropic.ContentBlockParamUnion {
	var content []anthropic.ToolResultBlockParamContentUnion
	for _, b := range nested {
		if b.OfText != nil {
			content = append(content, anthropic.ToolResultBlockParamContentUnion{OfText: b.OfText})
		}
	}
	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{ToolUseID: id, Content: content},
	}
}

func asstMsg(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks}
}

func userMsg(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleUser, Content: blocks}
}
