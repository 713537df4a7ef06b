package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/views/taskdetail"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/views/tasks"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	tasksView  *tasks.View
	detailView *taskdetail.View
	statusBar  *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		tasksView:   tasks.NewView(s, km, ports.Tasks),
		detailView:  taskdetail.NewView(s, km, ports.Tasks),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewTasks,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("tidy - Scheduled Tasks"),
		a.tasksView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.setView(msg.View)
		if msg.View == messages.ViewTasks {
			return a, a.tasksView.Init()
		}
		return a, nil

	case messages.TaskSelected:
		a.setView(messages.ViewTaskDetail)
		return a, a.detailView.Load(msg.ID)

	case messages.TasksLoaded:
		a.tasksView, cmd = a.tasksView.Update(msg)
		if msg.Err != nil {
			a.fail(msg.Err)
		} else {
			a.statusBar.SetTaskCount(len(msg.Tasks))
		}
		return a, cmd

	case messages.TaskLoaded:
		a.detailView, cmd = a.detailView.Update(msg)
		if msg.Err != nil {
			a.fail(msg.Err)
		}
		return a, cmd

	case messages.TaskRan:
		a.statusBar.SetState(status.StateReady)
		if msg.Err != nil {
			a.fail(msg.Err)
		} else {
			a.statusBar.SetMessage(fmt.Sprintf("Run %s", msg.Record.Result))
		}
		return a, a.broadcast(msg)

	case messages.TaskToggled:
		if msg.Err != nil {
			a.fail(msg.Err)
		} else if msg.Task != nil {
			a.statusBar.Clear()
			a.statusBar.SetMessage(toggleMessage(msg))
		}
		return a, a.broadcast(msg)

	case messages.TaskDeleted:
		if msg.Err != nil {
			a.fail(msg.Err)
		} else {
			a.statusBar.Clear()
		}
		return a, a.broadcast(msg)

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		switch {
		case key.Matches(msg, a.keymap.Back), key.Matches(msg, a.keymap.Help):
			a.setView(a.previousView)
		case key.Matches(msg, a.keymap.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	if key.Matches(msg, a.keymap.Help) {
		a.previousView = a.currentView
		a.setView(messages.ViewHelp)
		return a, nil
	}

	switch a.currentView {
	case messages.ViewTasks:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, a.keymap.Run) {
			if task, ok := a.tasksView.Selected(); ok {
				a.statusBar.SetState(status.StateBusy)
				a.statusBar.SetMessage(fmt.Sprintf("Running %s...", task.Name))
			}
		}
		a.tasksView, cmd = a.tasksView.Update(msg)
	case messages.ViewTaskDetail:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, a.keymap.Run) && a.detailView.Task() != nil {
			a.statusBar.SetState(status.StateBusy)
			a.statusBar.SetMessage(fmt.Sprintf("Running %s...", a.detailView.Task().Name))
		}
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		// handled above
	}

	return a, cmd
}

// broadcast forwards a task event to both views so each can refresh.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var listCmd, detailCmd tea.Cmd
	a.tasksView, listCmd = a.tasksView.Update(msg)
	a.detailView, detailCmd = a.detailView.Update(msg)
	return tea.Batch(listCmd, detailCmd)
}

func (a *App) setView(view messages.ViewType) {
	a.currentView = view
	a.statusBar.SetView(view)
}

func (a *App) fail(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

func toggleMessage(msg messages.TaskToggled) string {
	state := "disabled"
	if msg.Task.Enabled {
		state = "enabled"
	}
	if !msg.Changed {
		return fmt.Sprintf("%s is already %s", msg.Task.Name, state)
	}
	return fmt.Sprintf("%s %s", msg.Task.Name, state)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewTaskDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.tasksView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Label.Render(fmt.Sprintf("  %-12s", h.Key)))
			b.WriteString(a.styles.Normal.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back  [q] quit"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.tasksView.SetDimensions(width, height-1)
	a.detailView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
