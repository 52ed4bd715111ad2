package api

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleHealthz handles GET /healthz (no auth).
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Email:         s.svc.Email(),
		Sessions:      len(s.svc.Sessions().Sessions()),
		Handlers:      s.registry.Len(),
	})
}

// handleSessions handles GET /api/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	live := s.svc.Sessions().Sessions()
	out := make([]SessionInfo, 0, len(live))
	for _, session := range live {
		out = append(out, SessionInfo{
			Origin:   session.Origin().String(),
			State:    session.State().String(),
			LoginURL: session.LoginURL(),
		})
	}
	s.writeJSON(w, http.StatusOK, SessionsResponse{Sessions: out})
}
