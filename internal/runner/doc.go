// Package runner drives one task from seed message to a terminal state.
//
// Each iteration sends the full conversation to the Anthropic Messages API,
// surfaces text to the Observer, executes tool_use blocks in order and
// appends the assistant turn followed by a tool_results turn. A successful
// task_complete call ends the run immediately.
//
// Invariant:
//   - tool_use and the corresponding tool_result are kept adjacent
//     (assistant turn, then the tool_results turn answering every call).
//
// Flow:
//
//	user(seed) -> assistant(text, tool_use...) -> user(tool_result...) -> ... -> task_complete
//
// States are thinking (awaiting the model), acting (executing calls) and the
// terminal completed, exhausted and failed.
package runner
