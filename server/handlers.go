package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/tripdesk/tripdesk/orchestrate"
)

const sessionCookie = "session_id"

type chatRequest struct {
	Message   string `json:"message"`
	Reset     bool   `json:"reset,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// resolveSessionID derives the session id from the X-Session-Id header, the
// request body, or the session cookie, in that order. When none is present a
// fresh id is generated and set as an http-only cookie.
func (s *Server) resolveSessionID(w http.ResponseWriter, r *http.Request, bodyID string) string {
	if id := r.Header.Get("X-Session-Id"); id != "" {
		return id
	}
	if bodyID != "" {
		return bodyID
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	sessionID := s.resolveSessionID(w, r, req.SessionID)
	if req.Reset {
		s.svc.ResetSession(sessionID)
	}

	reply, err := s.svc.Chat(r.Context(), sessionID, req.Message)
	if err != nil {
		s.logger.Error("chat round failed", "session_id", sessionID, "error", err)
		if errors.Is(err, orchestrate.ErrRoundTimeout) {
			writeError(w, http.StatusGatewayTimeout, "Planning round timed out")
			return
		}
		writeError(w, http.StatusInternalServerError, "Planning round failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id,omitempty"`
	}
	// A missing or empty body is fine; the id may come from the header or
	// cookie instead.
	json.NewDecoder(r.Body).Decode(&req)

	sessionID := s.resolveSessionID(w, r, req.SessionID)
	s.svc.ResetSession(sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
