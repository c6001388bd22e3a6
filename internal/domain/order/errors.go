package order

import "fmt"

// InvalidDataError indicates a change action failed validation. The message
// names the offending field or reference so callers can surface it directly.
type InvalidDataError struct {
	Reason string
}

func (e *InvalidDataError) Error() string {
	return e.Reason
}

func invalidData(format string, args ...any) error {
	return &InvalidDataError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownActionTypeError indicates an action tag has no registered handler
// triple. This is a registry/deployment mismatch, not a data error.
type UnknownActionTypeError struct {
	ActionType ActionType
}

func (e *UnknownActionTypeError) Error() string {
	return fmt.Sprintf("unknown action type %q", e.ActionType)
}
