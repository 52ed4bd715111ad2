package tabstore

import (
	"regexp"
	"strconv"
	"strings"

	"huntbot/internal/coded"
	"huntbot/internal/result"
)

// Ref is a parsed range reference such as "INDEX!A:E", "Status!B3" or
// "'Puzzle 1'!F1:H1". Rows and columns are 1-based; 0 means unbounded
// on that axis.
type Ref struct {
	Tab      string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ErrInvalidRef reports an unparseable range reference.
var ErrInvalidRef = coded.NextCode()

var (
	quotedTabPattern = regexp.MustCompile(`^'((?:[^']|'')+)'$`)
	cellPattern      = regexp.MustCompile(`^([A-Z]*)([0-9]*)$`)
)

// ParseRef parses a range reference. The tab name may be single-quoted,
// with embedded quotes doubled. Either side of a range may omit the row
// ("A:E") or be a full cell ("B3").
func ParseRef(ref string) result.Result[Ref] {
	bad := func() result.Result[Ref] {
		return result.Err[Ref](coded.Newf(errKind, ErrInvalidRef, "invalid range reference %q", ref))
	}

	tab, rest, found := strings.Cut(ref, "!")
	if !found {
		return bad()
	}
	if m := quotedTabPattern.FindStringSubmatch(tab); m != nil {
		tab = strings.ReplaceAll(m[1], "''", "'")
	} else if strings.ContainsAny(tab, "'!") {
		return bad()
	}
	if tab == "" {
		return bad()
	}

	start, end, ranged := strings.Cut(rest, ":")
	sc, sr, ok := parseCell(start)
	if !ok {
		return bad()
	}
	r := Ref{Tab: tab, StartCol: sc, StartRow: sr, EndCol: sc, EndRow: sr}
	if ranged {
		ec, er, ok := parseCell(end)
		if !ok {
			return bad()
		}
		r.EndCol, r.EndRow = ec, er
	}
	return result.Ok(r)
}

// parseCell parses "B3" style coordinates. Column or row may be absent,
// reported as 0.
func parseCell(s string) (col, row int, ok bool) {
	m := cellPattern.FindStringSubmatch(s)
	if m == nil || s == "" {
		return 0, 0, false
	}
	col = ColIndex(m[1])
	if m[2] != "" {
		row, _ = strconv.Atoi(m[2])
		if row == 0 {
			return 0, 0, false
		}
	}
	return col, row, true
}

// ColIndex converts column letters to a 1-based index ("A"=1, "AA"=27).
// Empty input yields 0.
func ColIndex(letters string) int {
	n := 0
	for _, c := range letters {
		n = n*26 + int(c-'A') + 1
	}
	return n
}

// ColLetters is the inverse of ColIndex.
func ColLetters(index int) string {
	var b []byte
	for index > 0 {
		index--
		b = append([]byte{byte('A' + index%26)}, b...)
		index /= 26
	}
	return string(b)
}

// CellRef renders a single-cell reference, quoting the tab name when it
// needs it.
func CellRef(tab string, col, row int) string {
	return QuoteTab(tab) + "!" + ColLetters(col) + strconv.Itoa(row)
}

// QuoteTab quotes a tab name for use in a reference when it contains
// anything beyond letters, digits and underscores.
func QuoteTab(tab string) string {
	plain := true
	for _, c := range tab {
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
			plain = false
			break
		}
	}
	if plain && tab != "" {
		return tab
	}
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
