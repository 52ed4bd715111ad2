package watch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"huntbot/internal/events"
)

func renderEventStream(eventLog []events.Event, theme Theme, width int) string {
	innerWidth := width - 4

	if len(eventLog) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("EVENT STREAM"),
			theme.Dim.Render("  Waiting for events..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	var lines []string
	for i, e := range eventLog {
		if i >= 10 {
			break
		}
		lines = append(lines, formatEvent(e, theme))
	}

	eventsText := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("EVENT STREAM"),
		eventsText,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func formatEvent(e events.Event, theme Theme) string {
	ts := theme.Dim.Render(e.At.Format("15:04:05"))

	var typeStyle lipgloss.Style
	switch e.Type {
	case events.TypeHuntCreated, events.TypePuzzleAppended, events.TypeRoundAppended:
		typeStyle = theme.StatusOK
	case events.TypeLogin:
		typeStyle = theme.StatusActive
	case events.TypeRootChanged:
		typeStyle = theme.Highlight
	default:
		typeStyle = theme.Dim
	}

	typeName := typeStyle.Render(fmt.Sprintf("%-16s", e.Type))

	desc := extractEventDesc(e)

	return fmt.Sprintf("%s %s %s", ts, typeName, desc)
}

func extractEventDesc(e events.Event) string {
	data := make(map[string]any)
	_ = json.Unmarshal(e.Data, &data)

	var parts []string

	if command, ok := data["command"].(string); ok && command != "" {
		parts = append(parts, "/"+command)
	}

	if user, ok := data["user"].(string); ok && user != "" {
		parts = append(parts, user)
	}

	if channel, ok := data["channel"].(string); ok && channel != "" {
		parts = append(parts, "#"+channel)
	}

	if title, ok := data["title"].(string); ok && title != "" {
		parts = append(parts, title)
	}

	if tab, ok := data["tab"].(string); ok && tab != "" {
		parts = append(parts, tab)
	}

	if site, ok := data["site"].(string); ok && site != "" {
		parts = append(parts, site)
	}

	if len(parts) == 0 {
		raw := string(e.Data)
		if len(raw) > 60 {
			raw = raw[:60] + "..."
		}
		return raw
	}

	return strings.Join(parts, " ")
}
