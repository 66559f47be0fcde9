package handlers

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/provisioning"
	"github.com/imamik/demolab/internal/stack"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderer writes either lipgloss-styled or plain text.
type renderer struct {
	b      strings.Builder
	styled bool
}

func newRenderer(styled bool) *renderer {
	return &renderer{styled: styled}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *renderer) title(text string) {
	r.b.WriteString("\n")
	r.b.WriteString(r.style(titleStyle, "  "+text))
	r.b.WriteString("\n")
	r.b.WriteString(r.style(dimStyle, "  "+strings.Repeat("=", 30)))
	r.b.WriteString("\n")
}

func (r *renderer) section(text string) {
	r.b.WriteString("\n")
	r.b.WriteString(r.style(sectionStyle, "  "+text))
	r.b.WriteString("\n")
	r.b.WriteString(r.style(dimStyle, "  "+strings.Repeat("-", 35)))
	r.b.WriteString("\n")
}

func (r *renderer) field(name, value string) {
	fmt.Fprintf(&r.b, "    %s  %s\n", r.style(dimStyle, fmt.Sprintf("%-16s", name)), r.style(valueStyle, value))
}

func (r *renderer) line(text string) {
	r.b.WriteString("    " + text + "\n")
}

func (r *renderer) status(name string, ok bool, extra string) {
	indicator := r.style(valueStyle, "OK  ")
	if !ok {
		indicator = r.style(errorStyle, "FAIL")
	}
	fmt.Fprintf(&r.b, "  %s  %-20s %s\n", indicator, name, extra)
}

func (r *renderer) String() string {
	return r.b.String() + "\n"
}

// renderLaunchSummary describes a finished (or partially finished) launch.
func renderLaunchSummary(state *provisioning.State, styled bool) string {
	r := newRenderer(styled)
	r.title("demolab: " + state.Name)

	r.section("Lab")
	r.field("template", state.TemplateName)
	r.field("ttl", fmt.Sprintf("%dh", state.TTLHours))
	if state.CallerIdentity != "" {
		r.field("identity", state.CallerIdentity)
	}

	if state.GroupID != "" {
		r.section("Database")
		r.field("workspace group", state.GroupID)
		renderDetails(r, state.Details)
	}

	if state.Stack != nil {
		renderStack(r, state.Stack)
	}
	return r.String()
}

func renderDetails(r *renderer, details provisioning.Details) {
	for _, name := range details.Names() {
		d := details[name]
		r.field(name, d.EndpointURL)
		if d.MongoEndpoint != "" {
			r.field("", redactMongo(d.MongoEndpoint))
		}
	}
}

func renderStack(r *renderer, res *stack.Result) {
	r.section("Stack")
	r.field("id", res.StackID)
	status := res.Status
	if res.Existing {
		status += " (existing)"
	}
	r.field("status", status)
	for _, name := range res.OutputNames() {
		r.field(name, res.Outputs[name])
	}
}

// redactMongo hides the password inside a connection string.
// Unparsable strings are not echoed at all.
func redactMongo(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb://<redacted>"
	}
	if u.User == nil {
		return uri
	}
	if pw, ok := u.User.Password(); !ok || pw == "" {
		return uri
	}
	return u.Redacted()
}

func renderRegions(regions []singlestore.Region, styled bool) string {
	r := newRenderer(styled)
	r.title("SingleStore regions")
	r.b.WriteString("\n")
	for _, region := range regions {
		r.line(fmt.Sprintf("%-40s %-6s %s", region.Name, region.Provider, r.style(dimStyle, region.ID)))
	}
	if len(regions) == 0 {
		r.line(r.style(dimStyle, "No regions available."))
	}
	return r.String()
}

func renderCatalog(catalog *stack.Catalog, styled bool) string {
	r := newRenderer(styled)
	r.title("Templates")
	for _, e := range catalog.Stacks {
		r.section(e.Name)
		r.field("url", e.URL)
		if e.Description != "" {
			r.field("description", e.Description)
		}
	}
	if len(catalog.Stacks) == 0 {
		r.line(r.style(dimStyle, "The catalog is empty."))
	}
	return r.String()
}
