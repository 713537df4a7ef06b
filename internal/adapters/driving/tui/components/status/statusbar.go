// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady State = "ready"
	StateBusy  State = "busy"
	StateError State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	taskCount int
	view      messages.ViewType
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		view:   messages.ViewTasks,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBusy:
		if s.message != "" {
			return s.styles.Muted.Render(s.message)
		}
		return s.styles.Muted.Render("Working...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
	}
	if s.taskCount == 1 {
		return s.styles.Normal.Render("1 task")
	}
	if s.taskCount > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d tasks", s.taskCount))
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the active view.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.view {
	case messages.ViewTasks:
		bindings = s.keymap.TasksHelp()
	case messages.ViewTaskDetail:
		bindings = s.keymap.DetailHelp()
	case messages.ViewHelp:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetTaskCount sets the number of tasks shown on the left.
func (s *Bar) SetTaskCount(count int) {
	s.taskCount = count
}

// TaskCount returns the current task count.
func (s *Bar) TaskCount() int {
	return s.taskCount
}

// SetView selects which hint set is rendered.
func (s *Bar) SetView(view messages.ViewType) {
	s.view = view
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
