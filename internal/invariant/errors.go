package invariant

import (
	"errors"
	"fmt"
)

// Invariant errors.
var (
	ErrAssertionFailure = errors.New("invariant assertion failed")
	ErrMissingConstant  = errors.New("missing constant")
)

// AssertionError reports a rule whose predicate evaluated false.
type AssertionError struct {
	Rule        string
	Description string
	Values      Values
	Detail      string
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Rule, e.Description)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrAssertionFailure).
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailure
}

// MissingConstantError reports a constant a rule needs but the configuration lacks.
type MissingConstantError struct {
	Name string
}

func (e *MissingConstantError) Error() string {
	return fmt.Sprintf("missing constant %s", e.Name)
}

// Unwrap allows errors.Is(err, ErrMissingConstant).
func (e *MissingConstantError) Unwrap() error {
	return ErrMissingConstant
}
