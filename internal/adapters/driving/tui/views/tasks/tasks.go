// Package tasks provides the task list view for the TUI.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

var errServiceUnavailable = errors.New("task service not available")

// View lists scheduled tasks and acts on the selected one.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.TaskService

	tasks    []driving.TaskSummary
	selected int
	width    int
	height   int
	ready    bool
	loading  bool
	notice   string
	err      error
}

// NewView creates a new task list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.TaskService) *View {
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		tasks:   []driving.TaskSummary{},
	}
}

// Init loads the task list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadTasks()
}

func (v *View) loadTasks() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.TasksLoaded{Err: errServiceUnavailable}
		}
		tasks, err := v.service.List(context.Background())
		return messages.TasksLoaded{Tasks: tasks, Err: err}
	}
}

func (v *View) runTask(id string) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.TaskRan{ID: id, Err: errServiceUnavailable}
		}
		rec, err := v.service.RunNow(context.Background(), id)
		return messages.TaskRan{ID: id, Record: rec, Err: err}
	}
}

func (v *View) toggleTask(task driving.TaskSummary) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.TaskToggled{ID: task.ID, Err: errServiceUnavailable}
		}
		toggle := v.service.Enable
		if task.Enabled {
			toggle = v.service.Disable
		}
		updated, changed, err := toggle(context.Background(), task.ID)
		return messages.TaskToggled{ID: task.ID, Task: updated, Changed: changed, Err: err}
	}
}

func (v *View) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.TaskDeleted{ID: id, Err: errServiceUnavailable}
		}
		return messages.TaskDeleted{ID: id, Err: v.service.Delete(context.Background(), id)}
	}
}

// Update handles messages for the task list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TasksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.tasks = msg.Tasks
		v.err = nil
		if v.selected >= len(v.tasks) {
			v.selected = max(len(v.tasks)-1, 0)
		}
		return v, nil

	case messages.TaskRan:
		v.notice = runNotice(msg)
		return v, v.loadTasks()

	case messages.TaskToggled:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = ""
		return v, v.loadTasks()

	case messages.TaskDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Deleted %s", msg.ID)
		return v, v.loadTasks()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.tasks)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Refresh):
		v.loading = true
		return v, v.loadTasks()
	}

	task, ok := v.Selected()
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Select):
		id := task.ID
		return v, func() tea.Msg { return messages.TaskSelected{ID: id} }
	case key.Matches(msg, v.keymap.Run):
		v.notice = fmt.Sprintf("Running %s...", task.Name)
		return v, v.runTask(task.ID)
	case key.Matches(msg, v.keymap.Toggle):
		return v, v.toggleTask(task)
	case key.Matches(msg, v.keymap.Delete):
		return v, v.deleteTask(task.ID)
	}

	return v, nil
}

func runNotice(msg messages.TaskRan) string {
	if msg.Err != nil && msg.Record.Result == "" {
		return fmt.Sprintf("Run failed: %v", msg.Err)
	}
	return fmt.Sprintf("Run %s: %s", msg.Record.Result, msg.Record.Details)
}

// View renders the task list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Scheduled Tasks"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading tasks..."))
		b.WriteString("\n")
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		b.WriteString(v.styles.Muted.Render("No scheduled tasks. Create one with `tidy task create`."))
		b.WriteString("\n")
		return b.String()
	}

	for i := range v.tasks {
		b.WriteString(v.renderTask(i, &v.tasks[i]))
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(truncate(v.notice, v.lineWidth())))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderTask(index int, task *driving.TaskSummary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	state := v.styles.State(task.Enabled)

	last := "never"
	if task.LastRunResult != "" {
		last = task.LastRunResult.String()
	}

	name := truncate(task.Name, 28)
	if index == v.selected {
		return state + " " + v.styles.Selected.Render(fmt.Sprintf(
			"%s%-28s %-16s %-18s %s", indicator, name, task.CronExpression, task.ToolName, last))
	}
	return state + " " + v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-28s ", name)) +
		v.styles.Subtitle.Render(fmt.Sprintf("%-16s ", task.CronExpression)) +
		v.styles.Muted.Render(fmt.Sprintf("%-18s ", task.ToolName)) +
		v.styles.Outcome(task.LastRunResult).Render(last)
}

func (v *View) lineWidth() int {
	if v.width < 20 {
		return 80
	}
	return v.width - 4
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the highlighted task, if any.
func (v *View) Selected() (driving.TaskSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.tasks) {
		return driving.TaskSummary{}, false
	}
	return v.tasks[v.selected], true
}

// Tasks returns the loaded tasks.
func (v *View) Tasks() []driving.TaskSummary {
	return v.tasks
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Notice returns the last action message.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
