package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"huntbot/internal/events"
)

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	apiURL string
	token  string

	width  int
	height int

	// State
	health       HealthState
	hunts        map[string]*HuntState
	sessions     []SessionRow
	sessionTable table.Model
	eventLog     []events.Event

	// Live indicators
	ticker  Ticker
	pulse   Pulse
	spinner spinner.Model

	// UI state
	theme        Theme
	selectedHunt int

	// Communication
	hubEvents chan events.Event

	// Error display
	lastError string
}

// New creates a new watch TUI model.
func New(apiURL, token string) *Model {
	theme := NewDefaultTheme()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Highlight

	return &Model{
		apiURL:       apiURL,
		token:        token,
		hunts:        make(map[string]*HuntState),
		sessionTable: newSessionTable(),
		eventLog:     make([]events.Event, 0),
		hubEvents:    make(chan events.Event, 100),
		ticker:       NewTicker(),
		pulse:        NewPulse(),
		spinner:      sp,
		theme:        theme,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		subscribeToEvents(m.apiURL, m.token, m.hubEvents),
		receiveNextEvent(m.hubEvents),
		func() tea.Msg { return fetchStatus(m.apiURL, m.token) },
		func() tea.Msg { return fetchSessions(m.apiURL, m.token) },
		m.spinner.Tick,
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selectedHunt > 0 {
				m.selectedHunt--
			}
		case "down", "j":
			if m.selectedHunt < len(m.hunts)-1 {
				m.selectedHunt++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.ticker.Tick()
		m.pulse.Decay()
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		e := events.Event(msg)

		// Event log runs newest first
		m.eventLog = append([]events.Event{e}, m.eventLog...)
		if len(m.eventLog) > 50 {
			m.eventLog = m.eventLog[:50]
		}

		m.pulse.OnEvent()
		updateHuntState(m.hunts, e)

		m.health.Connected = true
		m.lastError = ""

		return m, receiveNextEvent(m.hubEvents)

	case statusMsg:
		m.health.Status = msg.Status
		m.health.UptimeSeconds = msg.UptimeSeconds
		m.health.Email = msg.Email
		m.health.Sessions = msg.Sessions
		m.health.Handlers = msg.Handlers
		m.health.Connected = true
		m.health.LastCheck = time.Now()
		m.lastError = ""

		return m, tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
			return fetchStatus(m.apiURL, m.token)
		})

	case sessionsMsg:
		m.sessions = msg.Sessions
		m.sessionTable.SetRows(sessionRows(m.sessions))

		return m, tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
			return fetchSessions(m.apiURL, m.token)
		})

	case sseDisconnectedMsg:
		m.health.Connected = false
		m.lastError = "SSE disconnected, reconnecting..."
		// Reconnect after a short delay; the existing receiveNextEvent
		// goroutine is still waiting on the channel and will pick up
		// events from the new subscription.
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return reconnectMsg{}
		})

	case reconnectMsg:
		return m, subscribeToEvents(m.apiURL, m.token, m.hubEvents)

	case errMsg:
		m.lastError = msg.Error()
		// Retry status in 5s
		return m, tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
			return fetchStatus(m.apiURL, m.token)
		})
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing huntbot watch..."
	}

	header := renderHeader(m.health, m.ticker, m.pulse, m.spinner.View(), m.theme, m.width)
	hunts := renderHunts(m.hunts, m.selectedHunt, m.theme, m.width)
	sessions := renderSessions(m.sessionTable, len(m.sessions), m.theme, m.width)
	eventStream := renderEventStream(m.eventLog, m.theme, m.width)

	var errBar string
	if m.lastError != "" {
		errBar = m.theme.StatusFailed.Render(fmt.Sprintf(" ⚠ %s", m.lastError))
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" [q] Quit • [↑/↓] Navigate Hunts")

	parts := []string{header, hunts, sessions, eventStream}
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}
