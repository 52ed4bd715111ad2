package watch

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

func newSessionTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Origin", Width: 36},
			{Title: "State", Width: 12},
			{Title: "Login URL", Width: 40},
		}),
		table.WithHeight(5),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t
}

func sessionRows(sessions []SessionRow) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{s.Origin, s.State, s.LoginURL})
	}
	return rows
}

func renderSessions(t table.Model, count int, theme Theme, width int) string {
	innerWidth := width - 4

	if count == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("BROWSER SESSIONS"),
			theme.Dim.Render("  No live sessions..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("BROWSER SESSIONS"),
		t.View(),
	)
	return theme.Border.Width(innerWidth).Render(content)
}
