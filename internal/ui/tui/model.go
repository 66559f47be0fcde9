package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/demolab/internal/provisioning"
)

// ErrInterrupted is reported when the user quits before the launch finished.
var ErrInterrupted = errors.New("interrupted")

// PhaseStatus represents a launch phase for display.
type PhaseStatus struct {
	Name   string
	Done   bool
	Active bool
	Err    error
	Detail string
}

// ResourceStatus represents a workspace group, workspace or stack.
type ResourceStatus struct {
	Kind   string
	Name   string
	ID     string
	State  string
	Failed bool
}

// Model is the Bubble Tea model for the launch view.
type Model struct {
	Title     string
	Phases    []PhaseStatus
	Resources []ResourceStatus
	LastLog   string

	StartTime time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewLaunchModel creates a model listing phases as pending.
func NewLaunchModel(title string, phases ...string) Model {
	m := Model{Title: title, StartTime: time.Now()}
	for _, p := range phases {
		m.Phases = append(m.Phases, PhaseStatus{Name: p})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Err = ErrInterrupted
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.apply(msg.Event)

	case LogMsg:
		m.LastLog = msg.Text

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// apply folds one provisioning event into the model.
func (m *Model) apply(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventPhaseStarted:
		p := m.phase(e.Phase)
		p.Active = true
	case provisioning.EventPhaseCompleted:
		p := m.phase(e.Phase)
		p.Active = false
		p.Done = true
		p.Detail = e.Message
	case provisioning.EventPhaseFailed:
		p := m.phase(e.Phase)
		p.Active = false
		p.Err = errors.New(e.Message)
	case provisioning.EventResourceCreating,
		provisioning.EventResourceCreated,
		provisioning.EventResourceExists,
		provisioning.EventResourceWaiting,
		provisioning.EventResourceReady,
		provisioning.EventResourceFailed:
		m.applyResource(e)
	}
}

func (m *Model) applyResource(e provisioning.Event) {
	r := m.resource(e.Fields["type"], e.Resource)
	if id := e.Fields["id"]; id != "" {
		r.ID = id
	}
	switch e.Type {
	case provisioning.EventResourceCreating:
		r.State = "creating"
	case provisioning.EventResourceCreated:
		r.State = "created"
	case provisioning.EventResourceExists:
		r.State = "exists"
	case provisioning.EventResourceWaiting:
		r.State = "waiting"
	case provisioning.EventResourceReady:
		r.State = "ACTIVE"
	case provisioning.EventResourceFailed:
		r.State = "failed"
		r.Failed = true
	}
}

// phase returns the named phase, appending it when unknown.
func (m *Model) phase(name string) *PhaseStatus {
	for i := range m.Phases {
		if m.Phases[i].Name == name {
			return &m.Phases[i]
		}
	}
	m.Phases = append(m.Phases, PhaseStatus{Name: name})
	return &m.Phases[len(m.Phases)-1]
}

func (m *Model) resource(kind, name string) *ResourceStatus {
	for i := range m.Resources {
		if m.Resources[i].Kind == kind && m.Resources[i].Name == name {
			return &m.Resources[i]
		}
	}
	m.Resources = append(m.Resources, ResourceStatus{Kind: kind, Name: name})
	return &m.Resources[len(m.Resources)-1]
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
