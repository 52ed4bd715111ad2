package hunt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntbot/internal/tabstore"
	"huntbot/internal/tabstore/sqlitestore"
)

func TestScan(t *testing.T) {
	t.Parallel()

	page := PageSource{
		URL:   "https://hunt.example",
		Title: "Example Hunt",
		HTML: `<html><body>
			<time datetime="2023-05-06T10:00:00-07:00">start</time>
			<time datetime="2023-05-08T10:00:00-07:00">end</time>
			<footer>Powered by gph-site</footer>
		</body></html>`,
	}
	p := Scan(page)
	assert.Equal(t, "Example Hunt", p.Title)
	assert.True(t, p.Gph)
	assert.Equal(t, "2023-05-06T10:00:00-07:00", p.StartTime)
	assert.Equal(t, "2023-05-08T10:00:00-07:00", p.EndTime)
}

func TestScanIgnoresWrongTimestampCount(t *testing.T) {
	t.Parallel()

	p := Scan(PageSource{HTML: `<time datetime="2023-05-06T10:00:00-07:00"></time>`})
	assert.Empty(t, p.StartTime)
	assert.Empty(t, p.EndTime)
	assert.False(t, p.Gph)
}

func TestScanFooterWithoutMark(t *testing.T) {
	t.Parallel()

	p := Scan(PageSource{HTML: `<footer>handmade</footer>Powered by gph-site`})
	assert.False(t, p.Gph)
}

func TestSetTimesValidate(t *testing.T) {
	t.Parallel()

	var p Puzzlehunt
	assert.False(t, p.SetStart("yesterday"))
	assert.Empty(t, p.StartTime)
	assert.True(t, p.SetStart("2023-05-06T10:00:00-07:00"))
	assert.False(t, p.SetEnd("2023-05-06"))
	assert.True(t, p.SetEnd("2023-05-08T10:00:00Z"))
}

func TestRender(t *testing.T) {
	t.Parallel()

	p := Puzzlehunt{
		URL:      "https://hunt.example",
		Title:    "Example Hunt",
		Username: "team",
		Password: "hunter2",
	}
	p.SetStart("2023-05-06T10:00:00-07:00")
	start, _ := time.Parse(time.RFC3339, "2023-05-06T10:00:00-07:00")

	out := p.Render()
	assert.Contains(t, out, "website: https://hunt.example")
	assert.Contains(t, out, "title: `Example Hunt`")
	assert.Contains(t, out, "start: "+DiscordTime(start))
	assert.Contains(t, out, "end: \n")
	assert.Contains(t, out, "password: `hunter2`")
}

func openTrackingSheet(t *testing.T) *tabstore.Spreadsheet {
	t.Helper()
	ctx := context.Background()
	store, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.InsertDocument(ctx, "doc-1", "", "tracker"))
	require.NoError(t, store.InsertTab(ctx, "doc-1", 1, "TEMPLATE", true))
	sheet := tabstore.NewSpreadsheet(store, "doc-1")
	require.NoError(t, sheet.
		WriteRange("INDEX!A1:D1", [][]string{{"Tab", "Name", "Answer", "Status"}}).
		FlushWrite(ctx))
	return sheet
}

func TestAppendPuzzle(t *testing.T) {
	t.Parallel()

	sheet := openTrackingSheet(t)
	ctx := context.Background()

	name, err := AppendPuzzle(ctx, sheet, "https://hunt.example/puzzle/42", "The Answer")
	require.NoError(t, err)
	assert.Equal(t, "The Answer", name)

	rows, err := sheet.ReadRange(ctx, "INDEX!A:D")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, `=HYPERLINK("#gid=2", "The Answer")`, rows[1][1])
	assert.Equal(t, `='The Answer'!B1`, rows[1][2])

	links, err := sheet.ReadRange(ctx, "'The Answer'!F1:H1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, `=HYPERLINK("https://hunt.example/puzzle/42", "puzzle")`, links[0][0])
	assert.Equal(t, `=HYPERLINK("https://hunt.example/hints/42", "hint")`, links[0][1])
	assert.Equal(t, `=HYPERLINK("https://hunt.example/solve/42", "answer")`, links[0][2])
}

func TestAppendPuzzleNonGphURL(t *testing.T) {
	t.Parallel()

	sheet := openTrackingSheet(t)
	ctx := context.Background()

	_, err := AppendPuzzle(ctx, sheet, "https://hunt.example/p/42", "Plain")
	require.NoError(t, err)

	links, err := sheet.ReadRange(ctx, "Plain!F1:H1")
	require.NoError(t, err)
	assert.Equal(t, `=HYPERLINK("", "hint")`, links[0][1])
}

func TestAppendRound(t *testing.T) {
	t.Parallel()

	sheet := openTrackingSheet(t)
	ctx := context.Background()

	require.NoError(t, AppendRound(ctx, sheet, "Round 1"))
	rows, err := sheet.ReadRange(ctx, "INDEX!A:D")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "-", rows[1][0])
	assert.Equal(t, "Round 1", rows[1][1])
}

func TestStats(t *testing.T) {
	t.Parallel()

	sheet := openTrackingSheet(t)
	ctx := context.Background()

	require.NoError(t, sheet.WriteRange("INDEX!A2:D4", [][]string{
		{"2", "A", "", "solved"},
		{"3", "B", "", "open"},
		{"4", "C", "", "solved"},
	}).FlushWrite(ctx))

	out, err := Stats(ctx, sheet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"solved": 2, "open": 1}`, out)
	// Indented so the summary reads well inside a code block.
	assert.Contains(t, out, "\"solved\": 2")
}
