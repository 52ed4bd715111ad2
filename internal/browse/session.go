// Package browse drives a headless browser session against a hunt site:
// start, heuristic login, page scraping. One Session maps to one site
// origin and tears itself down after a fixed lifespan.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"huntbot/internal/coded"
	"huntbot/internal/log"
)

// State is the session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateStarted
	StateLoggingIn
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateLoggingIn:
		return "logging_in"
	case StateLoggedIn:
		return "logged_in"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInputNotFound  = coded.NextCode()
	ErrSubmitNotFound = coded.NextCode()
	ErrMissingPage    = coded.NextCode()
)

const errKind = "browser"

// DefaultLifespan is how long a session lives before unconditional
// teardown.
const DefaultLifespan = 7 * 24 * time.Hour

// element is one matched page element.
type element interface {
	Input(ctx context.Context, text string) error
	Click(ctx context.Context) error
}

// driver abstracts the underlying browser so the session state machine
// is testable without one. rodDriver is the real implementation.
type driver interface {
	Start(ctx context.Context, url string) error
	Navigate(ctx context.Context, url string) error
	Elements(ctx context.Context, selector string) ([]element, error)
	// WaitNavigation arms a navigation watcher and returns the wait func.
	WaitNavigation(ctx context.Context) func() error
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Links(ctx context.Context, selector string) ([]string, error)
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// Session is the login state machine over one browser.
type Session struct {
	mu       sync.Mutex
	state    State
	origin   *url.URL
	drv      driver
	adapter  SiteAdapter
	lifespan time.Duration
	timer    *time.Timer
	logger   *slog.Logger

	newDriver func() driver
}

// Options tune a session. Zero values fall back to defaults.
type Options struct {
	Adapter  SiteAdapter
	Lifespan time.Duration
	Headless bool
	// Site, when set, replaces the real browser with an in-memory site.
	Site *MemSite
}

// NewSession prepares a session for the given site url. No browser is
// launched until Start.
func NewSession(rawURL string, opts Options) (*Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, coded.Newf(errKind, ErrMissingPage, "`%s` is not a browsable url", rawURL)
	}
	if opts.Adapter == nil {
		opts.Adapter = GphAdapter{}
	}
	if opts.Lifespan <= 0 {
		opts.Lifespan = DefaultLifespan
	}
	newDriver := func() driver { return newRodDriver(opts.Headless) }
	if opts.Site != nil {
		site, adapter := opts.Site, opts.Adapter
		newDriver = func() driver { return newMemDriver(site, adapter) }
	}
	return &Session{
		origin:    u,
		adapter:   opts.Adapter,
		lifespan:  opts.Lifespan,
		logger:    log.WithComponent("browse"),
		newDriver: newDriver,
	}, nil
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Origin is the site url the session was created for.
func (s *Session) Origin() *url.URL { return s.origin }

// Start launches the browser and opens the site. Idempotent: a started
// session is left alone. Teardown is scheduled unconditionally after
// the configured lifespan.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return nil
	}
	drv := s.newDriver()
	if err := drv.Start(ctx, s.origin.String()); err != nil {
		_ = drv.Close()
		return fmt.Errorf("start browser for %s: %w", s.origin, err)
	}
	s.drv = drv
	s.state = StateStarted
	s.timer = time.AfterFunc(s.lifespan, func() { s.teardown(drv) })
	s.logger.Info("Browser session started", "origin", s.origin.String(), "lifespan", s.lifespan.String())
	return nil
}

// teardown closes drv and resets to Idle, unless the session has
// already moved on to a newer driver.
func (s *Session) teardown(drv driver) {
	s.mu.Lock()
	if s.drv != drv {
		s.mu.Unlock()
		_ = drv.Close()
		return
	}
	s.drv = nil
	s.state = StateIdle
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	if err := drv.Close(); err != nil {
		s.logger.Warn("Browser close failed", "origin", s.origin.String(), "error", err)
	} else {
		s.logger.Info("Browser session torn down", "origin", s.origin.String())
	}
}

// Close tears the session down immediately.
func (s *Session) Close() {
	s.mu.Lock()
	drv := s.drv
	s.mu.Unlock()
	if drv != nil {
		s.teardown(drv)
	}
}

// page returns the live driver or a coded error after teardown.
func (s *Session) page() (driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return nil, coded.Newf(errKind, ErrMissingPage, "session for %s is torn down", s.origin)
	}
	return s.drv, nil
}

// LoginURL is where Login navigates, derived from the adapter.
func (s *Session) LoginURL() string {
	u := *s.origin
	u.Path = s.adapter.LoginPath()
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Login fills the site's login form and submits it. Already logged in
// is success without navigating. The adapter's arities are strict: any
// other count of inputs or submit controls fails the call without a
// partial fill.
func (s *Session) Login(ctx context.Context, username, password, loginURL string) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateLoggedIn {
		s.mu.Unlock()
		return nil
	}
	prev := s.state
	s.state = StateLoggingIn
	drv := s.drv
	s.mu.Unlock()

	if loginURL == "" {
		loginURL = s.LoginURL()
	}
	err := s.doLogin(ctx, drv, username, password, loginURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv != drv {
		return coded.Newf(errKind, ErrMissingPage, "session for %s is torn down", s.origin)
	}
	if err != nil {
		s.state = prev
		return err
	}
	s.state = StateLoggedIn
	s.logger.Info("Logged in", "origin", s.origin.String())
	return nil
}

func (s *Session) doLogin(ctx context.Context, drv driver, username, password, loginURL string) error {
	if err := drv.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("open login page %s: %w", loginURL, err)
	}
	inputs, err := drv.Elements(ctx, s.adapter.InputSelector())
	if err != nil {
		return fmt.Errorf("query login inputs: %w", err)
	}
	if len(inputs) != s.adapter.InputCount() {
		return coded.Newf(errKind, ErrInputNotFound,
			"unable to find input boxes on %s (matched %d)", loginURL, len(inputs))
	}
	if err := inputs[0].Input(ctx, username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := inputs[1].Input(ctx, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}

	submits, err := drv.Elements(ctx, s.adapter.SubmitSelector())
	if err != nil {
		return fmt.Errorf("query submit control: %w", err)
	}
	if len(submits) != s.adapter.SubmitCount() {
		return coded.Newf(errKind, ErrSubmitNotFound,
			"unable to find submit button on %s (matched %d)", loginURL, len(submits))
	}

	wait := drv.WaitNavigation(ctx)
	if err := submits[0].Click(ctx); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	if err := wait(); err != nil {
		return fmt.Errorf("wait for login navigation: %w", err)
	}
	return nil
}

// ResetLogin drops the logged-in mark so the next Login runs the form
// again, keeping the browser alive.
func (s *Session) ResetLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoggedIn {
		s.state = StateStarted
	}
}

// Browse navigates the session's page to url.
func (s *Session) Browse(ctx context.Context, url string) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	drv, err := s.page()
	if err != nil {
		return err
	}
	if err := drv.Navigate(ctx, url); err != nil {
		return fmt.Errorf("browse %s: %w", url, err)
	}
	return nil
}

// Title reads the current page title.
func (s *Session) Title(ctx context.Context) (string, error) {
	drv, err := s.page()
	if err != nil {
		return "", err
	}
	return drv.Title(ctx)
}

// URL reads the current page location.
func (s *Session) URL(ctx context.Context) (string, error) {
	drv, err := s.page()
	if err != nil {
		return "", err
	}
	return drv.URL(ctx)
}

// HTML reads the current page markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	drv, err := s.page()
	if err != nil {
		return "", err
	}
	return drv.HTML(ctx)
}

// puzzleLinkSelector matches puzzle links on hunt index pages.
const puzzleLinkSelector = `a[href*="/puzzle/"], a[href*="/puzzles/"]`

// Puzzles collects unique puzzle links from the current page.
func (s *Session) Puzzles(ctx context.Context) ([]string, error) {
	drv, err := s.page()
	if err != nil {
		return nil, err
	}
	links, err := drv.Links(ctx, puzzleLinkSelector)
	if err != nil {
		return nil, fmt.Errorf("collect puzzle links: %w", err)
	}
	seen := make(map[string]bool, len(links))
	out := links[:0]
	for _, link := range links {
		if !seen[link] {
			seen[link] = true
			out = append(out, link)
		}
	}
	return out, nil
}

// Screenshot captures the full current page to path.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	drv, err := s.page()
	if err != nil {
		return err
	}
	return drv.Screenshot(ctx, path)
}
