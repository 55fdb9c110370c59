package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type UI struct {
	enabled bool

	bold    lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	error   lipgloss.Style
	label   lipgloss.Style
	heading lipgloss.Style
}

func New(out *os.File) UI {
	enabled := shouldStyle(out)
	r := lipgloss.NewRenderer(out)

	return UI{
		enabled: enabled,

		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#559db6", Dark: "#a3ddef"}).Bold(true),
		heading: r.NewStyle().Bold(true).Underline(true),
	}
}

func shouldStyle(out *os.File) bool {
	if out == nil {
		return false
	}
	if !term.IsTerminal(int(out.Fd())) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	return true
}

func (u UI) Enabled() bool { return u.enabled }

func (u UI) Bold(s string) string    { return u.render(u.bold, s) }
func (u UI) Dim(s string) string     { return u.render(u.dim, s) }
func (u UI) OK(s string) string      { return u.render(u.ok, s) }
func (u UI) Warn(s string) string    { return u.render(u.warn, s) }
func (u UI) Error(s string) string   { return u.render(u.error, s) }
func (u UI) Label(s string) string   { return u.render(u.label, s) }
func (u UI) Heading(s string) string { return u.render(u.heading, s) }

// Pad right-pads s to width visible cells. Styled input is measured without
// its escape sequences.
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Indent prefixes every non-empty line of s.
func Indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func (u UI) render(style lipgloss.Style, s string) string {
	if !u.enabled {
		return s
	}
	return style.Render(s)
}
