package inbox

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail/internal/keys"
	"github.com/nhle/tempmail/internal/model"
)

func TestView_EmptyState(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	assert.Contains(t, m.View(), EmptyText)
}

func TestSetMessages_KeepsOrderAndSelection(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages([]model.MessageSummary{
		{ID: "m2", Subject: "second", From: model.Address{Address: "b@x.y"}},
		{ID: "m1", Subject: "first", From: model.Address{Address: "a@x.y"}},
	}, map[string]bool{"m1": true})

	assert.Equal(t, 2, m.Len())
	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "m2", selected.ID)
	assert.Contains(t, m.View(), "second")
}

func TestUpdate_EnterOpensSelected(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages([]model.MessageSummary{{ID: "m1", Subject: "hi"}}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedMessageMsg{ID: "m1"}, cmd())
}

func TestUpdate_EnterOnEmptyListDoesNothing(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestUpdate_DeleteAndSource(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages([]model.MessageSummary{{ID: "m1"}}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteMessageMsg{ID: "m1"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	assert.Equal(t, SourceMsg{ID: "m1"}, cmd())
}

func TestMessageItem_Unread(t *testing.T) {
	assert.True(t, MessageItem{Summary: model.MessageSummary{ID: "a"}}.Unread())
	assert.False(t, MessageItem{Summary: model.MessageSummary{ID: "a"}, Read: true}.Unread())
	assert.False(t, MessageItem{Summary: model.MessageSummary{ID: "a", Seen: true}}.Unread())
	assert.Equal(t, "(no subject)", MessageItem{}.Title())
}

func TestMessageItem_StripsControlSequences(t *testing.T) {
	item := MessageItem{Summary: model.MessageSummary{
		ID:      "m1",
		Subject: "Prize\x1b]52;c;aGk=\x07 inside",
		From:    model.Address{Name: "Eve\x1b[2J", Address: "eve@x.y"},
	}}

	assert.Equal(t, "Prize inside", item.Title())
	assert.Equal(t, "Eve <eve@x.y>", item.Description())

	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages([]model.MessageSummary{item.Summary}, nil)
	assert.NotContains(t, m.View(), "\x1b]52")
}
