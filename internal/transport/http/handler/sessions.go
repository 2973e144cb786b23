package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-kanban-api/internal/application/session"
	"github.com/go-kanban-api/internal/pkg/validate"
	"github.com/go-kanban-api/internal/transport/http/middleware"
)

// SessionHandler handles login and logout.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Login authenticates and sets the two cookies the web client relies on:
// the signed token and the plain user_id. The bearer is also returned in
// the body for API clients.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieToken,
		Value:    result.Bearer,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieUserID,
		Value:    result.User.UserID,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: result.Bearer, User: toSafeUser(result.User)})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	for _, name := range []string{middleware.CookieToken, middleware.CookieUserID} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
