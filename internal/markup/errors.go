package markup

import "fmt"

// ParseError indicates markup that could not be parsed into a tree at all.
// Partial or drifted templates do not cause this; they extract best-effort.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("markup parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("markup parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
