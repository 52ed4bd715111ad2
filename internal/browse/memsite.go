package browse

import (
	"context"
	"fmt"
	"sync"
)

// MemPage is one page served by a MemSite.
type MemPage struct {
	Title string
	HTML  string
	Links []string
}

// MemSite is an in-memory stand-in for a hunt site. A session pointed at
// it through Options.Site navigates, logs in, and scrapes without a real
// browser. Used by tests of the packages built on top of Session.
type MemSite struct {
	mu    sync.Mutex
	pages map[string]MemPage

	// Credentials accepted by the synthetic login form. Empty accepts
	// anything.
	Username string
	Password string

	logins []string
}

func NewMemSite() *MemSite {
	return &MemSite{pages: make(map[string]MemPage)}
}

// AddPage registers the page served at url.
func (m *MemSite) AddPage(url string, p MemPage) *MemSite {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[url] = p
	return m
}

// Logins reports the username of each submitted login, in order.
func (m *MemSite) Logins() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logins))
	copy(out, m.logins)
	return out
}

func (m *MemSite) page(url string) (MemPage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[url]
	return p, ok
}

func (m *MemSite) recordLogin(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, username)
}

// memDriver is the driver over one MemSite. Unknown urls serve an empty
// page rather than failing, like a site's 404 page would.
type memDriver struct {
	site    *MemSite
	adapter SiteAdapter

	mu       sync.Mutex
	current  string
	username string
	password string
	closed   bool
}

func newMemDriver(site *MemSite, adapter SiteAdapter) *memDriver {
	return &memDriver{site: site, adapter: adapter}
}

func (d *memDriver) Start(ctx context.Context, url string) error {
	return d.Navigate(ctx, url)
}

func (d *memDriver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("driver is closed")
	}
	d.current = url
	return nil
}

func (d *memDriver) Elements(_ context.Context, selector string) ([]element, error) {
	switch selector {
	case d.adapter.InputSelector():
		out := make([]element, d.adapter.InputCount())
		for i := range out {
			out[i] = &memInput{drv: d, index: i}
		}
		return out, nil
	case d.adapter.SubmitSelector():
		out := make([]element, d.adapter.SubmitCount())
		for i := range out {
			out[i] = &memSubmit{drv: d}
		}
		return out, nil
	default:
		return nil, nil
	}
}

func (d *memDriver) WaitNavigation(context.Context) func() error {
	return func() error { return nil }
}

func (d *memDriver) Title(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, _ := d.site.page(d.current)
	return p.Title, nil
}

func (d *memDriver) URL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *memDriver) HTML(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, _ := d.site.page(d.current)
	return p.HTML, nil
}

func (d *memDriver) Links(_ context.Context, _ string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, _ := d.site.page(d.current)
	return append([]string(nil), p.Links...), nil
}

func (d *memDriver) Screenshot(context.Context, string) error { return nil }

func (d *memDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type memInput struct {
	drv   *memDriver
	index int
}

func (e *memInput) Input(_ context.Context, text string) error {
	e.drv.mu.Lock()
	defer e.drv.mu.Unlock()
	if e.index == 0 {
		e.drv.username = text
	} else {
		e.drv.password = text
	}
	return nil
}

func (e *memInput) Click(context.Context) error { return nil }

type memSubmit struct {
	drv *memDriver
}

func (e *memSubmit) Input(context.Context, string) error { return nil }

func (e *memSubmit) Click(_ context.Context) error {
	e.drv.mu.Lock()
	username, password := e.drv.username, e.drv.password
	e.drv.mu.Unlock()
	site := e.drv.site
	if site.Username != "" && (username != site.Username || password != site.Password) {
		return fmt.Errorf("login rejected for %q", username)
	}
	site.recordLogin(username)
	return nil
}
