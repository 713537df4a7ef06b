package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	palette := []lipgloss.Color{
		theme.Accent, theme.Highlight, theme.Text, theme.Dim, theme.Bar, theme.Good, theme.Bad,
	}
	seen := make(map[lipgloss.Color]bool)
	for _, c := range palette {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate palette entry %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()

	assert.Equal(t, theme, NewStyles(theme).Theme())
	assert.NotNil(t, NewStyles(nil).Theme())
}

func TestNewStyles_Colours(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	assert.Equal(t, theme.Accent, s.Title.GetForeground())
	assert.True(t, s.Title.GetBold())
	assert.Equal(t, theme.Accent, s.Selected.GetBackground())
	assert.Equal(t, theme.Good, s.Enabled.GetForeground())
	assert.Equal(t, theme.Dim, s.Disabled.GetForeground())
	assert.Equal(t, 14, s.Label.GetWidth())
	assert.Equal(t, theme.Bar, s.StatusBar.GetBackground())
}

func TestStyles_Outcome(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Success, s.Outcome(domain.ExecutionSuccess))
	assert.Equal(t, s.Error, s.Outcome(domain.ExecutionFailure))
	assert.Equal(t, s.Muted, s.Outcome(""))
}

func TestStyles_State(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.State(true), "●")
	assert.Contains(t, s.State(false), "○")
}
