package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

func newTestApp(t *testing.T, mock *MockTaskService) *App {
	t.Helper()
	if mock == nil {
		mock = &MockTaskService{}
	}
	app, err := NewApp(&Ports{Tasks: mock})
	require.NoError(t, err)
	app.SetDimensions(120, 30)
	return app
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Tasks: &MockTaskService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewTasks, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingTaskService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, nil)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, nil)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Tasks: &MockTaskService{}})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(keyRune('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")
	assert.Contains(t, app.View(), "run now")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewTasks, app.CurrentView())
}

func TestApp_TaskSelectedOpensDetail(t *testing.T) {
	mock := &MockTaskService{
		GetFunc: func(ctx context.Context, id string) (*domain.ScheduledTask, error) {
			return &domain.ScheduledTask{ID: id, Name: "Nightly", CronExpression: "@daily", ToolName: "System_Echo"}, nil
		},
	}
	app := newTestApp(t, mock)

	_, cmd := app.Update(messages.TaskSelected{ID: "t1"})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewTaskDetail, app.CurrentView())

	app.Update(cmd())
	assert.Contains(t, app.View(), "Nightly")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	assert.Equal(t, messages.ViewTasks, app.CurrentView())
	assert.NotNil(t, cmd, "returning to the list should reload it")
}

func TestApp_TasksLoadedUpdatesStatus(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.TasksLoaded{Tasks: []driving.TaskSummary{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}})

	assert.Contains(t, app.View(), "2 tasks")
}

func TestApp_RunFromList(t *testing.T) {
	app := newTestApp(t, nil)
	app.Update(messages.TasksLoaded{Tasks: []driving.TaskSummary{{ID: "a", Name: "Alpha"}}})

	_, cmd := app.Update(keyRune('r'))
	require.NotNil(t, cmd)
	assert.Contains(t, app.View(), "Running Alpha")

	msg := cmd()
	ran, ok := msg.(messages.TaskRan)
	require.True(t, ok)

	_, cmd = app.Update(ran)
	assert.NotNil(t, cmd)
	assert.Contains(t, app.View(), "Run success")
}

func TestApp_ErrorsSurfaceInStatusBar(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
	assert.Contains(t, app.View(), "Error: disk full")
}

func TestApp_ToggleMessage(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.TaskToggled{ID: "a", Task: &domain.ScheduledTask{ID: "a", Name: "Alpha"}, Changed: false})

	assert.Contains(t, app.View(), "Alpha is already disabled")
}
