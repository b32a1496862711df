package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSessionRequired is returned when Fill is called without a session.
	ErrSessionRequired = errors.New("tui: navigation session is required")
)
