// Package tui provides a Bubble Tea-based terminal UI for lab launches.
package tui

import "github.com/imamik/demolab/internal/provisioning"

// EventMsg carries a provisioning event to the model.
type EventMsg struct {
	Event provisioning.Event
}

// LogMsg carries a free-form log line.
type LogMsg struct {
	Text string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
