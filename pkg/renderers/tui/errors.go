package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoEditableFields is returned when the record offers nothing to edit.
	ErrNoEditableFields = errors.New("tui: no editable fields")
)
