package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/petasbytes/sasa/internal/runner"
	"github.com/petasbytes/sasa/tools"
)

const (
	reset   = "\u001b[0m"
	bold    = "\u001b[1m"
	red     = "\u001b[31m"
	green   = "\u001b[32m"
	yellow  = "\u001b[33m"
	blue    = "\u001b[34m"
	magenta = "\u001b[35m"
	cyan    = "\u001b[36m"
	gray    = "\u001b[90m"
)

type painter struct{ color bool }

func (p painter) paint(code, s string) string {
	if !p.color || code == "" {
		return s
	}
	return code + s + reset
}

// console renders run progress for a human. It implements runner.Observer.
type console struct {
	out io.Writer
	painter
}

var _ runner.Observer = (*console)(nil)

func (c *console) println(code, s string) {
	fmt.Fprintln(c.out, c.paint(code, s))
}

func (c *console) banner(task string) {
	c.println(bold+blue, "\n🤖 Task Automation Agent\n")
	c.println(yellow, "Task: "+task+"\n")
}

func (c *console) OnIteration(n, _ int) {
	c.println(gray, fmt.Sprintf("\n--- Iteration %d ---\n", n))
}

func (c *console) OnText(text string) {
	c.println("", text)
}

func (c *console) OnToolCall(call tools.ToolCall) {
	c.println(magenta, "\n→ Using tool: "+call.Name)
	input := call.Input
	if len(input) == 0 {
		input = []byte(`{}`)
	}
	c.println(gray, strings.TrimRight(string(pretty.Pretty(input)), "\n"))
}

func (c *console) OnToolResult(call tools.ToolCall, res tools.ToolResult) {
	if res.IsError {
		c.println(red, "✗ "+call.Name+" failed: "+res.Content)
		return
	}
	c.println(green, "✔ "+progressLine(call))
}

func (c *console) OnFinish(out runner.Outcome) {
	switch out.State {
	case runner.StateCompleted:
		c.println(bold+green, "\n✓ "+out.Result)
	case runner.StateExhausted:
		c.println(red, "\n⚠ Maximum iterations reached without completion")
	}
}

// progressLine summarizes a successful call from its input.
func progressLine(call tools.ToolCall) string {
	arg := func(key string) string { return gjson.GetBytes(call.Input, key).String() }
	switch call.Name {
	case "read_file":
		return "Read file: " + arg("path")
	case "write_file":
		return "Wrote file: " + arg("path")
	case "list_directory":
		return "Listed directory: " + arg("path")
	case "execute_shell":
		return "Executed: " + arg("command")
	case "http_request":
		return "HTTP " + arg("method") + ": " + arg("url")
	case tools.TaskCompleteName:
		return "Task completed!"
	default:
		return "Executed: " + call.Name
	}
}
