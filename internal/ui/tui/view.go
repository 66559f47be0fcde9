package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	if len(m.Resources) > 0 {
		renderResources(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render("demolab: " + m.Title))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Ready")
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(activePhase(m))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	progress := calculateProgress(m)
	filled := min(int(float64(barWidth)*progress), barWidth)

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, p := range m.Phases {
		icon, style := phaseIcon(p, m.SpinnerFrame)
		line := fmt.Sprintf("  %s %-12s", style(icon), p.Name)
		switch {
		case p.Err != nil:
			line += " " + failedStyle.Render(p.Err.Error())
		case p.Detail != "":
			line += " " + dimStyle.Render(p.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderResources(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Resources"))
	b.WriteString("\n")

	for _, r := range m.Resources {
		icon, style := resourceIcon(r, m.SpinnerFrame)
		fmt.Fprintf(b, "  %s %-16s %-32s %s\n", style(icon), r.Kind, r.Name, dimStyle.Render(r.State))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	parts := []string{"elapsed: " + formatDuration(time.Since(m.StartTime))}
	if m.LastLog != "" {
		parts = append(parts, m.LastLog)
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func phaseIcon(p PhaseStatus, frame int) (string, styleFunc) {
	switch {
	case p.Err != nil:
		return crossMark, sf(failedStyle)
	case p.Done:
		return checkMark, sf(readyStyle)
	case p.Active:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func resourceIcon(r ResourceStatus, frame int) (string, styleFunc) {
	switch {
	case r.Failed:
		return crossMark, sf(failedStyle)
	case r.State == "ACTIVE" || r.State == "created":
		return checkMark, sf(readyStyle)
	case r.State == "exists":
		return existMark, sf(readyStyle)
	default:
		return currentSpinner(frame), sf(activeStyle)
	}
}

func activePhase(m Model) string {
	for _, p := range m.Phases {
		if p.Active {
			return p.Name
		}
	}
	return "starting"
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Phases) == 0 {
		return 0
	}
	done := 0
	for _, p := range m.Phases {
		if p.Done {
			done++
		}
	}
	return float64(done) / float64(len(m.Phases))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
