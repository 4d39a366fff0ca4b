package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidSubmission is returned when the collected values fail
	// validation on fields the session cannot prompt for again (disabled
	// fields or form-level rules).
	ErrInvalidSubmission = errors.New("tui: submission is invalid")
)
