package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoExamples is returned when there is nothing to pick from.
	ErrNoExamples = errors.New("prompt: registry is empty")
)
