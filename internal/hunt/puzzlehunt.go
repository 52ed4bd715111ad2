// Package hunt holds the puzzlehunt domain: scanning hunt sites for
// metadata and mutating a channel's tracking spreadsheet (rounds,
// puzzles, solve stats).
package hunt

import (
	"fmt"
	"strings"
	"time"
)

// Puzzlehunt is the scanned metadata of one hunt site.
type Puzzlehunt struct {
	URL       string
	Title     string
	Gph       bool
	StartTime string
	EndTime   string
	Username  string
	Password  string
}

// SetStart records the hunt start timestamp. It must carry a timezone,
// like 2023-05-06T10:00:00-07:00. Reports whether the input was valid.
func (p *Puzzlehunt) SetStart(timestamp string) bool {
	if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		return false
	}
	p.StartTime = timestamp
	return true
}

// SetEnd records the hunt end timestamp, same format as SetStart.
func (p *Puzzlehunt) SetEnd(timestamp string) bool {
	if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		return false
	}
	p.EndTime = timestamp
	return true
}

// DiscordTime renders t as a Discord relative-time tag.
func DiscordTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func discordTimestamp(timestamp string) string {
	if timestamp == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ""
	}
	return DiscordTime(t)
}

// Render formats the hunt summary for a chat message.
func (p *Puzzlehunt) Render() string {
	lines := []string{
		fmt.Sprintf("website: %s", p.URL),
		fmt.Sprintf("title: `%s`", p.Title),
		fmt.Sprintf("start: %s", discordTimestamp(p.StartTime)),
		fmt.Sprintf("end: %s", discordTimestamp(p.EndTime)),
		fmt.Sprintf("username: `%s`", p.Username),
		fmt.Sprintf("password: `%s`", p.Password),
	}
	return strings.Join(lines, "\n")
}
