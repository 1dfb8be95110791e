package runner

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/sasa/memory"
)

type State string

const (
	StateThinking  State = "thinking"
	StateActing    State = "acting"
	StateCompleted State = "completed"
	StateExhausted State = "exhausted"
	StateFailed    State = "failed"
)

// Outcome describes how a run ended. Result is set only when State is
// StateCompleted.
type Outcome struct {
	RunID      string
	State      State
	Result     string
	Iterations int
	Transcript []memory.Turn
}

// TransportError reports a failed model call. It is fatal to the run.
type TransportError struct {
	// StatusCode is the HTTP status returned by the API, or 0 when no
	// response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model call failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(err error) *TransportError {
	te := &TransportError{Err: err}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.StatusCode
	}
	return te
}
