package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_IdleDoesNothing(t *testing.T) {
	m := New(80, 24)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, m.View())
}

func TestStart_RendersAddress(t *testing.T) {
	m := New(80, 24)
	m.Start("ab12cd34@example.com")

	assert.Contains(t, m.View(), "ab12cd34@example.com")
}

func TestUpdate_AbortCancels(t *testing.T) {
	m := New(80, 24)
	m.Start("ab12cd34@example.com")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, CancelledMsg{}, cmd())
	assert.Empty(t, m.View())
}
