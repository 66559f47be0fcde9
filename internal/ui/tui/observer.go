package tui

import (
	"fmt"
	"maps"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/demolab/internal/provisioning"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards provisioning events to a Bubble Tea program.
type Observer struct {
	send   Sender
	fields map[string]string
}

// NewObserver creates an observer sending to s.
func NewObserver(s Sender) *Observer {
	return &Observer{send: s, fields: map[string]string{}}
}

// Printf implements provisioning.Observer.
func (o *Observer) Printf(format string, v ...interface{}) {
	o.send.Send(LogMsg{Text: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	o.send.Send(EventMsg{Event: event})
}

// Progress implements provisioning.Observer.
func (o *Observer) Progress(phase string, current, total int) {
	o.send.Send(LogMsg{Text: fmt.Sprintf("%s: %d/%d", phase, current, total)})
}

// WithFields implements provisioning.Observer.
func (o *Observer) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(o.fields)
	maps.Copy(merged, fields)
	return &Observer{send: o.send, fields: merged}
}
