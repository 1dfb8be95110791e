package windowing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/sasa/internal/windowing"
)

func TestInspect_EmptyHistory(t *testing.T) {
	stats, err := windowing.Inspect(nil, 100, windowing.HeuristicCounter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Messages != 0 || stats.Groups != 0 || stats.Estimated != 0 || stats.Budget != 100 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestInspect_CountsWholeHistory(t *testing.T) {
	// G0: user("old")             => 3 + 4 = 7
	// G1: asst(tu a) + user(tr r) => 4 + (1 + 4) = 9
	// G2: user("tail")            => 4 + 4 = 8
	msgs := []anthropic.MessageParam{
		userMsg(textBlock("old")),
		asstMsg(useBlock("a")),
		userMsg(resultText("a", "r")),
		userMsg(textBlock("tail")),
	}

	stats, err := windowing.Inspect(msgs, 0, windowing.HeuristicCounter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Messages != 4 || stats.Groups != 3 || stats.Pairs != 1 || stats.Unpaired != 0 || stats.Estimated != 24 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestInspect_BudgetBoundary(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userMsg(textBlock("oldest")), // 10
		userMsg(textBlock("mid")),    // 7
		userMsg(textBlock("new")),    // 7
	}

	if _, err := windowing.Inspect(msgs, 24, windowing.HeuristicCounter{}); err != nil {
		t.Fatalf("exact budget should pass: %v", err)
	}

	stats, err := windowing.Inspect(msgs, 23, windowing.HeuristicCounter{})
	if !errors.Is(err, windowing.ErrOverBudget) {
		t.Fatalf("want ErrOverBudget, got %v", err)
	}
	if stats.Estimated != 24 || stats.Budget != 23 {
		t.Fatalf("stats not reported with error: %+v", stats)
	}
}

func TestInspect_NegativeBudgetIsUnlimited(t *testing.T) {
	stats, err := windowing.Inspect([]anthropic.MessageParam{userMsg(textBlock("x"))}, -5, windowing.HeuristicCounter{})
	if err != nil || stats.Budget != 0 {
		t.Fatalf("stats=%+v err=%v", stats, err)
	}
}

func TestInspect_BrokenPairing(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userMsg(textBlock("task")),
		asstMsg(useBlock("t1"), useBlock("t2")),
		userMsg(resultBlock("t1", false)),
	}
	stats, err := windowing.Inspect(msgs, 0, windowing.HeuristicCounter{})
	if !errors.Is(err, windowing.ErrBrokenPairing) {
		t.Fatalf("want ErrBrokenPairing, got %v", err)
	}
	if stats.Unpaired != 1 || stats.Pairs != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !strings.Contains(err.Error(), "message 1: "+windowing.ReasonMissingResults) {
		t.Fatalf("error does not name the first broken message: %v", err)
	}
}

func TestInspect_TextOnlyAssistantIsNotUnpaired(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userMsg(textBlock("task")),
		asstMsg(textBlock("let me think")),
	}
	stats, err := windowing.Inspect(msgs, 0, windowing.HeuristicCounter{})
	if err != nil || stats.Unpaired != 0 {
		t.Fatalf("stats=%+v err=%v", stats, err)
	}
}
