package tools

import (
	"errors"
	"fmt"

	"github.com/petasbytes/sasa/internal/safety"
)

// Kind classifies a recoverable tool failure.
type Kind string

const (
	KindSchema      Kind = "SchemaError"
	KindIO          Kind = "IOError"
	KindExec        Kind = "ExecError"
	KindNetwork     Kind = "NetworkError"
	KindUnknownTool Kind = "UnknownToolError"
	KindPermission  Kind = "PermissionError"
)

// Error is a tool failure that is reported back to the model, never raised.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err; unclassified errors count as ExecError.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	var pe safety.ToolError
	if errors.As(err, &pe) {
		return KindPermission
	}
	return KindExec
}

// classify wraps err with kind, except policy denials which are always PermissionError.
func classify(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var pe safety.ToolError
	if errors.As(err, &pe) {
		kind = KindPermission
	}
	return &Error{Kind: kind, Err: err}
}
