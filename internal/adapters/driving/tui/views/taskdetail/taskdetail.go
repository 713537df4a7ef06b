// Package taskdetail provides the single-task view with execution history.
package taskdetail

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

var errServiceUnavailable = errors.New("task service not available")

// View shows one task and its recent runs.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.TaskService

	id      string
	task    *domain.ScheduledTask
	width   int
	height  int
	loading bool
	running bool
	err     error
}

// NewView creates a new task detail view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.TaskService) *View {
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, service: service}
}

// Load switches the view to the task with the given ID.
func (v *View) Load(id string) tea.Cmd {
	if id != v.id {
		v.task = nil
	}
	v.id = id
	v.loading = true
	v.err = nil
	return v.loadTask()
}

func (v *View) loadTask() tea.Cmd {
	id := v.id
	return func() tea.Msg {
		if v.service == nil {
			return messages.TaskLoaded{ID: id, Err: errServiceUnavailable}
		}
		task, err := v.service.Get(context.Background(), id)
		return messages.TaskLoaded{ID: id, Task: task, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TaskLoaded:
		if msg.ID != v.id {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.task = msg.Task
		}
		return v, nil

	case messages.TaskRan:
		if msg.ID != v.id {
			return v, nil
		}
		v.running = false
		return v, v.loadTask()

	case messages.TaskToggled:
		if msg.ID != v.id {
			return v, nil
		}
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.task = msg.Task
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewTasks} }
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Load(v.id)
	}

	if v.task == nil || v.service == nil {
		return v, nil
	}

	id := v.task.ID
	switch {
	case key.Matches(msg, v.keymap.Run):
		if v.running {
			return v, nil
		}
		v.running = true
		return v, func() tea.Msg {
			rec, err := v.service.RunNow(context.Background(), id)
			return messages.TaskRan{ID: id, Record: rec, Err: err}
		}
	case key.Matches(msg, v.keymap.Toggle):
		toggle := v.service.Enable
		if v.task.Enabled {
			toggle = v.service.Disable
		}
		return v, func() tea.Msg {
			task, changed, err := toggle(context.Background(), id)
			return messages.TaskToggled{ID: id, Task: task, Changed: changed, Err: err}
		}
	}

	return v, nil
}

// View renders the task with its history.
func (v *View) View() string {
	var b strings.Builder

	if v.task == nil {
		b.WriteString(v.styles.Title.Render("Task"))
		b.WriteString("\n\n")
		switch {
		case v.err != nil:
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		case v.loading:
			b.WriteString(v.styles.Muted.Render("Loading task..."))
		default:
			b.WriteString(v.styles.Muted.Render("No task selected."))
		}
		b.WriteString("\n")
		return b.String()
	}

	t := v.task
	b.WriteString(v.styles.Title.Render(t.Name))
	b.WriteString("\n\n")

	state := v.styles.Enabled.Render("enabled")
	if !t.Enabled {
		state = v.styles.Disabled.Render("disabled")
	}

	v.field(&b, "ID", t.ID)
	v.field(&b, "Schedule", t.CronExpression)
	v.field(&b, "Operation", t.ToolName)
	b.WriteString(v.styles.Label.Render(fmt.Sprintf("%-12s", "State")))
	b.WriteString(state)
	b.WriteString("\n")
	v.field(&b, "Params", formatParams(t.ToolParams))
	v.field(&b, "Created", t.CreatedAt.Local().Format(timeLayout))
	v.field(&b, "Updated", t.UpdatedAt.Local().Format(timeLayout))
	if t.LastRunAt != nil {
		v.field(&b, "Last run", fmt.Sprintf("%s (%s)", t.LastRunAt.Local().Format(timeLayout), t.LastRunResult))
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("History"))
	b.WriteString("\n")
	if v.running {
		b.WriteString(v.styles.Muted.Render("Running..."))
		b.WriteString("\n")
	}
	if len(t.ExecutionHistory) == 0 {
		b.WriteString(v.styles.Muted.Render("No runs yet."))
		b.WriteString("\n")
		return b.String()
	}
	for _, rec := range t.ExecutionHistory {
		b.WriteString(v.renderRecord(rec))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Label.Render(fmt.Sprintf("%-12s", label)))
	b.WriteString(v.styles.Normal.Render(value))
	b.WriteString("\n")
}

func (v *View) renderRecord(rec domain.TaskExecutionRecord) string {
	details := strings.Join(strings.Fields(rec.Details), " ")
	width := 60
	if v.width > 40 {
		width = v.width - 36
	}
	if r := []rune(details); len(r) > width {
		details = string(r[:width-3]) + "..."
	}
	return v.styles.Muted.Render(rec.Timestamp.Local().Format(timeLayout)) + "  " +
		v.styles.Outcome(rec.Result).Render(fmt.Sprintf("%-8s", rec.Result)) + " " +
		v.styles.Normal.Render(details)
}

// formatParams renders params as sorted key=value pairs.
func formatParams(params domain.Params) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Task returns the loaded task.
func (v *View) Task() *domain.ScheduledTask {
	return v.task
}

// TaskID returns the ID of the task being shown.
func (v *View) TaskID() string {
	return v.id
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

