package runner

import "github.com/petasbytes/sasa/tools"

// Observer receives user-facing progress for a run. Calls are made
// synchronously from the goroutine executing Run.
type Observer interface {
	OnIteration(n, max int)
	OnText(text string)
	OnToolCall(call tools.ToolCall)
	OnToolResult(call tools.ToolCall, res tools.ToolResult)
	OnFinish(out Outcome)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnIteration(int, int) {}
func (NopObserver) OnText(string) {}
func (NopObserver) OnToolCall(tools.ToolCall) {}
func (NopObserver) OnToolResult(tools.ToolCall, tools.ToolResult) {}
func (NopObserver) OnFinish(Outcome) {}
