package hunt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"huntbot/internal/tabstore"
)

// indexRef covers the tracking sheet's index: tab id, name, answer,
// status.
const indexRef = "INDEX!A:D"

// AppendPuzzle adds a puzzle to the tracking spreadsheet: a new tab
// duplicated from the template, an index row pointing at it, and
// puzzle/hint/answer links inside the tab. Hint and answer urls are
// derived for gph-style puzzle urls. Returns the tab name used.
func AppendPuzzle(ctx context.Context, sheet *tabstore.Spreadsheet, url, tabName string) (string, error) {
	hintURL, ansURL := "", ""
	if strings.Contains(url, "/puzzle/") {
		hintURL = strings.Replace(url, "/puzzle/", "/hints/", 1)
		ansURL = strings.Replace(url, "/puzzle/", "/solve/", 1)
	}

	gid, err := sheet.NewFromTemplate(ctx, tabName)
	if err != nil {
		return "", fmt.Errorf("new tab %q: %w", tabName, err)
	}
	rows, err := sheet.ReadRange(ctx, indexRef)
	if err != nil {
		return "", fmt.Errorf("read index: %w", err)
	}
	row := len(rows) + 1

	tab := tabstore.QuoteTab(tabName)
	err = sheet.
		WriteCell("INDEX!A"+strconv.Itoa(row), strconv.FormatInt(gid, 10)).
		WriteCell("INDEX!B"+strconv.Itoa(row), fmt.Sprintf(`=HYPERLINK("#gid=%d", "%s")`, gid, tabName)).
		WriteCell("INDEX!C"+strconv.Itoa(row), fmt.Sprintf(`=%s!B1`, tab)).
		WriteCell("INDEX!D"+strconv.Itoa(row), fmt.Sprintf(`=%s!D1`, tab)).
		WriteCell(tab+"!F1", fmt.Sprintf(`=HYPERLINK("%s", "puzzle")`, url)).
		WriteCell(tab+"!G1", fmt.Sprintf(`=HYPERLINK("%s", "hint")`, hintURL)).
		WriteCell(tab+"!H1", fmt.Sprintf(`=HYPERLINK("%s", "answer")`, ansURL)).
		FlushWrite(ctx)
	if err != nil {
		return "", err
	}
	return tabName, nil
}

// AppendRound adds a round divider row to the index.
func AppendRound(ctx context.Context, sheet *tabstore.Spreadsheet, title string) error {
	rows, err := sheet.ReadRange(ctx, indexRef)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	row := len(rows) + 1
	return sheet.
		WriteCell("INDEX!A"+strconv.Itoa(row), "-").
		WriteCell("INDEX!B"+strconv.Itoa(row), title).
		FlushWrite(ctx)
}

// Stats histograms the index's status column as a JSON object. The
// header cell is excluded.
func Stats(ctx context.Context, sheet *tabstore.Spreadsheet) (string, error) {
	rows, err := sheet.ReadRange(ctx, indexRef)
	if err != nil {
		return "", fmt.Errorf("read index: %w", err)
	}
	hist := map[string]int{}
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		hist[row[3]]++
	}
	delete(hist, "Status")
	out, err := json.MarshalIndent(hist, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
