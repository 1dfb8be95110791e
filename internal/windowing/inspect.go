package windowing

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

var (
	// ErrOverBudget is returned when the estimated input exceeds a configured budget.
	ErrOverBudget = errors.New("windowing: estimated input exceeds budget")
	// ErrBrokenPairing is returned when an assistant tool_use message is not
	// answered by the message that follows it.
	ErrBrokenPairing = errors.New("windowing: tool_use without matching tool_result")
)

// Stats summarizes a request history.
//
// Fields:
// - Messages: number of messages inspected.
// - Groups: number of atomic groups.
// - Pairs: groups that are validated tool_use/tool_result pairs.
// - Unpaired: assistant messages whose tool_use blocks were not answered.
// - Estimated: estimated input tokens for the whole history.
// - Budget: the budget checked against; 0 means unlimited.
type Stats struct {
	Messages  int
	Groups    int
	Pairs     int
	Unpaired  int
	Estimated int
	Budget    int
}

// Inspect estimates the cost of msgs and checks that it is safe to send.
// A budget of 0 or less disables the budget check. Stats are returned even
// when an error is.
func Inspect(msgs []anthropic.MessageParam, budget int, c TokenCounter) (Stats, error) {
	if budget < 0 {
		budget = 0
	}
	stats := Stats{Messages: len(msgs), Budget: budget}
	if len(msgs) == 0 {
		return stats, nil
	}

	groups := GroupBlocks(msgs)
	stats.Groups = len(groups)

	var firstReason string
	firstIdx := -1
	for _, g := range groups {
		stats.Estimated += c.CountGroup(g, msgs)
		switch {
		case g.Kind == GroupPair:
			stats.Pairs++
		case g.Reason != "":
			stats.Unpaired++
			if firstIdx < 0 {
				firstIdx, firstReason = g.Start, g.Reason
			}
		}
	}

	if stats.Unpaired > 0 {
		return stats, fmt.Errorf("%w: message %d: %s", ErrBrokenPairing, firstIdx, firstReason)
	}
	if budget > 0 && stats.Estimated > budget {
		return stats, fmt.Errorf("%w: estimated %d > budget %d", ErrOverBudget, stats.Estimated, budget)
	}
	return stats, nil
}
