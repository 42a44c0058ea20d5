package inbox

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/render"
	"github.com/nhle/tempmail/internal/theme"
)

// MessageItem wraps a message summary so it can be used in a bubbles/list.
type MessageItem struct {
	Summary model.MessageSummary
	Read    bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string {
	return i.Summary.From.Address + " " + i.Summary.Subject
}

// Title returns the message subject.
func (i MessageItem) Title() string {
	subject := render.CleanLine(i.Summary.Subject)
	if subject == "" {
		return "(no subject)"
	}
	return subject
}

// Description returns the sender.
func (i MessageItem) Description() string {
	return render.CleanLine(i.Summary.From.String())
}

// Unread reports whether the message has not been opened yet.
func (i MessageItem) Unread() bool {
	return !i.Read && !i.Summary.Seen
}

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}

	marker := " "
	if mi.Unread() {
		marker = theme.UnreadStyle.Render("●")
	}

	from := lipgloss.NewStyle().
		Width(28).
		MaxWidth(28).
		Render(truncate(mi.Description(), 26))

	attach := ""
	if mi.Summary.HasAttachments {
		attach = theme.DimmedStyle.Render(" +att")
	}

	when := theme.DimmedStyle.Render(relativeTime(mi.Summary.CreatedAt))

	line := fmt.Sprintf("%s %s %s%s  %s", marker, from, mi.Title(), attach, when)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
