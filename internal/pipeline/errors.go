package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionInFlight is returned when a form is submitted while a previous submission is running.
	ErrSubmissionInFlight = errors.New("a submission is already in progress for this form")
	// ErrEmptyReflection is recorded when the analyzer answers with blank text.
	ErrEmptyReflection = errors.New("analyzer returned an empty reflection")
)

// ValidationError reports a form field that failed validation. No I/O was attempted.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EntrySaveError reports that the entry could not be persisted. Nothing was stored.
type EntrySaveError struct {
	Err error
}

func (e *EntrySaveError) Error() string {
	return fmt.Sprintf("failed to save journal entry: %v", e.Err)
}

func (e *EntrySaveError) Unwrap() error {
	return e.Err
}
