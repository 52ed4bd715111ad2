package hunt

import "regexp"

// PageSource is a fetched page, title plus raw markup.
type PageSource struct {
	URL   string
	Title string
	HTML  string
}

var (
	footerPattern   = regexp.MustCompile(`(?is)<footer[\s>].*?</footer>`)
	gphPattern      = regexp.MustCompile(`Powered by gph-site`)
	datetimePattern = regexp.MustCompile(`(?is)<time[^>]*\bdatetime="([^"]+)"`)
)

// Scan extracts hunt metadata from a fetched page. The gph mark is a
// simple footer probe; start and end are taken from the page's <time>
// elements only when exactly two carry valid timestamps.
func Scan(page PageSource) *Puzzlehunt {
	p := &Puzzlehunt{URL: page.URL, Title: page.Title}

	for _, footer := range footerPattern.FindAllString(page.HTML, -1) {
		if gphPattern.MatchString(footer) {
			p.Gph = true
			break
		}
	}

	var timestamps []string
	for _, m := range datetimePattern.FindAllStringSubmatch(page.HTML, -1) {
		if m[1] != "" {
			timestamps = append(timestamps, m[1])
		}
	}
	if len(timestamps) == 2 {
		p.SetStart(timestamps[0])
		p.SetEnd(timestamps[1])
	}
	return p
}
