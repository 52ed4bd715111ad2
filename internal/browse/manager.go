package browse

import (
	"net/url"
	"sync"

	"huntbot/internal/coded"
)

// Manager hands out one session per site origin.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
}

func NewManager(opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Session returns the session for the url's origin, creating it if
// needed. The url must be absolute.
func (m *Manager) Session(rawURL string) (*Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, coded.Newf(errKind, ErrMissingPage, "`%s` is not a browsable url", rawURL)
	}
	key := u.Scheme + "://" + u.Host

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	s, err := NewSession(rawURL, m.opts)
	if err != nil {
		return nil, err
	}
	m.sessions[key] = s
	return s, nil
}

// Sessions snapshots all live sessions for status reporting.
func (m *Manager) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// CloseAll tears down every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
