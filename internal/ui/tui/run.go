package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/demolab/internal/provisioning"
)

// RunFunc performs the work shown by the TUI, reporting to observer.
type RunFunc func(ctx context.Context, observer provisioning.Observer) error

// RunLaunch runs fn in the background while rendering its events.
// Quitting the TUI cancels the context passed to fn, and RunLaunch returns
// once fn has returned.
func RunLaunch(ctx context.Context, title string, phases []string, fn RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewLaunchModel(title, phases...))

	result := make(chan error, 1)
	go func() {
		err := fn(ctx, NewObserver(p))
		result <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	cancel()
	runErr := <-result
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(Model); ok && fm.Err == ErrInterrupted && runErr == nil {
		return ErrInterrupted
	}
	return runErr
}
