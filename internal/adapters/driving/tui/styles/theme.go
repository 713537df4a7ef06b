// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Bar       lipgloss.Color
	Good      lipgloss.Color
	Bad       lipgloss.Color
}

// DefaultTheme returns the dark palette used by default.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#0EA5E9"),
		Highlight: lipgloss.Color("#A78BFA"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Bar:       lipgloss.Color("#181825"),
		Good:      lipgloss.Color("#A6E3A1"),
		Bad:       lipgloss.Color("#F38BA8"),
	}
}

// Styles holds the rendered styles shared by every view.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Help     lipgloss.Style

	// Success and Error colour execution outcomes and messages.
	Success lipgloss.Style
	Error   lipgloss.Style

	// Enabled and Disabled mark whether a task has a live schedule.
	Enabled  lipgloss.Style
	Disabled lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles builds styles from theme, falling back to DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme:     theme,
		Title:     fg(theme.Accent).Bold(true),
		Subtitle:  fg(theme.Highlight).Bold(true),
		Normal:    fg(theme.Text),
		Muted:     fg(theme.Dim),
		Selected:  fg(theme.Text).Background(theme.Accent).Bold(true),
		Label:     fg(theme.Highlight).Width(14),
		Help:      fg(theme.Dim),
		Success:   fg(theme.Good),
		Error:     fg(theme.Bad),
		Enabled:   fg(theme.Good).Bold(true),
		Disabled:  fg(theme.Dim),
		StatusBar: fg(theme.Dim).Background(theme.Bar).Padding(0, 1),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Outcome returns the style for an execution result; unknown results are muted.
func (s *Styles) Outcome(result domain.ExecutionResult) lipgloss.Style {
	switch result {
	case domain.ExecutionSuccess:
		return s.Success
	case domain.ExecutionFailure:
		return s.Error
	default:
		return s.Muted
	}
}

// State renders a short marker for a task's enabled flag.
func (s *Styles) State(enabled bool) string {
	if enabled {
		return s.Enabled.Render("●")
	}
	return s.Disabled.Render("○")
}
