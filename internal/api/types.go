package api

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SessionInfo describes one live browser session.
type SessionInfo struct {
	Origin   string `json:"origin"`
	State    string `json:"state"`
	LoginURL string `json:"login_url"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Email         string `json:"email"`
	Sessions      int    `json:"sessions"`
	Handlers      int    `json:"handlers"`
}

// SessionsResponse is returned by GET /api/sessions.
type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}
