package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kanban-api/internal/application/invitation"
	"github.com/go-kanban-api/internal/pkg/validate"
	"github.com/go-kanban-api/internal/transport/http/middleware"
)

// InviteRequest is the body of the invite endpoint.
type InviteRequest struct {
	Email   string `json:"email" validate:"required,email"`
	BoardID string `json:"boardId" validate:"required"`
}

// InvitationHandler handles invites and invite token lookups.
type InvitationHandler struct {
	svc invitation.Service
}

func NewInvitationHandler(svc invitation.Service) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Invite(r.Context(), ident.UserID, req.Email, req.BoardID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// VerifyToken resolves a signup token so the registration page can
// prefill the email and board. Token value, status and record id are not
// echoed back.
func (h *InvitationHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.VerifyToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email":    t.Email,
		"board_id": t.BoardID,
	})
}
