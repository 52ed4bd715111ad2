package watch

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"huntbot/internal/events"
)

// HuntState tracks puzzlehunt activity in one channel, reconstructed
// from the event stream.
type HuntState struct {
	ChannelID  string
	Title      string
	Sheet      string
	Puzzles    int
	Rounds     int
	LastAction string
	LastSeen   time.Time
}

// updateHuntState processes an event and updates per-channel hunt tracking.
func updateHuntState(hunts map[string]*HuntState, e events.Event) {
	data := make(map[string]any)
	_ = json.Unmarshal(e.Data, &data)

	channelID, _ := data["channel_id"].(string)
	if channelID == "" {
		return
	}

	h, ok := hunts[channelID]
	if !ok {
		h = &HuntState{ChannelID: channelID}
		hunts[channelID] = h
	}
	h.LastSeen = time.Now()

	switch e.Type {
	case events.TypeHuntCreated:
		if title, ok := data["title"].(string); ok {
			h.Title = title
		}
		if sheet, ok := data["sheet"].(string); ok {
			h.Sheet = sheet
		}
		h.LastAction = "created"

	case events.TypePuzzleAppended:
		h.Puzzles++
		if tab, ok := data["tab"].(string); ok {
			h.LastAction = "puzzle " + tab
		} else {
			h.LastAction = "puzzle"
		}

	case events.TypeRoundAppended:
		h.Rounds++
		if title, ok := data["title"].(string); ok {
			h.LastAction = "round " + title
		} else {
			h.LastAction = "round"
		}

	case events.TypeLogin:
		h.LastAction = "login"
	}
}

func sortedHuntChannels(hunts map[string]*HuntState) []string {
	ids := make([]string, 0, len(hunts))
	for id := range hunts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func renderHunts(hunts map[string]*HuntState, selected int, theme Theme, width int) string {
	innerWidth := width - 4

	if len(hunts) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("HUNTS"),
			theme.Dim.Render("  No hunt activity yet..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	ids := sortedHuntChannels(hunts)

	var lines []string
	for i, id := range ids {
		lines = append(lines, renderHuntRow(i+1, hunts[id], i == selected, theme))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{theme.Title.Render("HUNTS")}, lines...)...,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func renderHuntRow(num int, h *HuntState, isSelected bool, theme Theme) string {
	title := h.Title
	if title == "" {
		title = "channel " + h.ChannelID
	}

	nameStyle := lipgloss.NewStyle()
	if isSelected {
		nameStyle = nameStyle.Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	}

	counts := theme.Dim.Render(fmt.Sprintf("puzzles: %d  rounds: %d", h.Puzzles, h.Rounds))

	last := ""
	if !h.LastSeen.IsZero() {
		ago := time.Since(h.LastSeen).Round(time.Second)
		last = theme.Dim.Render(fmt.Sprintf("Last: %s ago", ago))
		if h.LastAction != "" {
			last += "  " + theme.Highlight.Render(h.LastAction)
		}
	}

	return fmt.Sprintf(" %d. %s  %s  %s",
		num,
		nameStyle.Render(fmt.Sprintf("%-24s", title)),
		counts,
		last,
	)
}
