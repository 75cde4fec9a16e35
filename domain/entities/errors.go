package entities

import (
	"errors"
	"fmt"
	"time"
)

// Driver-level sentinel errors. Driver adapters wrap backend errors with these
// so the interaction layer can reason about them without knowing the backend.
var (
	ErrNoSuchElement  = errors.New("no such element")
	ErrStaleElement   = errors.New("stale element reference")
	ErrNoAlert        = errors.New("no such alert")
	ErrInvalidLocator = errors.New("invalid locator")
	ErrDriverClosed   = errors.New("driver closed")
	ErrUnsupported    = errors.New("unsupported by driver")
)

// Scenario data errors. A run that fails with one of these never touched the
// browser.
var (
	ErrInvalidData    = errors.New("invalid scenario data")
	ErrRecordNotFound = errors.New("scenario record not found")
)

// TimeoutError - a condition was never satisfied within its budget
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Elapsed   time.Duration
	Attempts  int
	// Resolved is true when at least one evaluation completed without error,
	// i.e. the target existed but the predicate stayed false.
	Resolved bool
	LastErr  error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s (timeout %s, %d attempts) waiting for %s",
		e.Elapsed.Round(time.Millisecond), e.Timeout, e.Attempts, e.Condition)
	if !e.Resolved && e.LastErr != nil {
		return fmt.Sprintf("%s: never resolved, last error: %v", msg, e.LastErr)
	}
	return msg + ": condition not met"
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// ElementNotFoundError - a presence check timed out
type ElementNotFoundError struct {
	Locator Locator
	Timeout *TimeoutError
	// Hint carries optional diagnostics about what the page did contain.
	Hint string
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("element %s not found", e.Locator)
	if e.Timeout != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Timeout)
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *ElementNotFoundError) Unwrap() error {
	if e.Timeout == nil {
		return nil
	}
	return e.Timeout
}

// ElementNotInteractableError - the element was found but could not be
// clicked or typed into within the budget
type ElementNotInteractableError struct {
	Locator Locator
	Action  string
	Err     error
}

func (e *ElementNotInteractableError) Error() string {
	return fmt.Sprintf("element %s not interactable for %s: %v", e.Locator, e.Action, e.Err)
}

func (e *ElementNotInteractableError) Unwrap() error { return e.Err }

// AssertionFailure - expected and actual values differ. Never wraps a
// TimeoutError.
type AssertionFailure struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *AssertionFailure) Error() string {
	return fmt.Sprintf("assertion failed for %s: expected %q, actual %q", e.Subject, e.Expected, e.Actual)
}

// IsTimeout - reports whether err is (or wraps) a timeout of any kind
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsAssertion - reports whether err is (or wraps) an assertion failure
func IsAssertion(err error) bool {
	var af *AssertionFailure
	return errors.As(err, &af)
}

// IsDataError - reports whether err comes from scenario data rather than the
// page under test
func IsDataError(err error) bool {
	return errors.Is(err, ErrInvalidData) || errors.Is(err, ErrRecordNotFound)
}
