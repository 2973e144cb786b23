package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kanban-api/internal/application/reconcile"
	"github.com/go-kanban-api/internal/transport/http/middleware"
)

// RepairHandler exposes the manual repair and audit endpoints. The
// repair operations take query parameters rather than a body so they
// can be hit directly from a browser or curl during an incident.
type RepairHandler struct {
	svc reconcile.Service
}

func NewRepairHandler(svc reconcile.Service) *RepairHandler {
	return &RepairHandler{svc: svc}
}

// RepairMembership re-grants one user's membership on one board.
// ?boardId and ?userId are both required.
func (h *RepairHandler) RepairMembership(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("boardId")
	userID := r.URL.Query().Get("userId")
	if boardID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "boardId and userId are required")
		return
	}
	if err := h.svc.RepairMembership(r.Context(), boardID, userID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "membership repaired"})
}

// RepairInvitation is the self-service path: the caller names a board
// via ?boardId and the repair succeeds only if an invite notification
// addressed to the caller exists for it.
func (h *RepairHandler) RepairInvitation(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	boardID := r.URL.Query().Get("boardId")
	if boardID == "" {
		writeError(w, http.StatusBadRequest, "boardId is required")
		return
	}
	if err := h.svc.RepairInvitation(r.Context(), ident.UserID, boardID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "invitation repaired"})
}

// AuditBoard reports one board's raw membership list with the stored
// attribute type of every entry.
func (h *RepairHandler) AuditBoard(w http.ResponseWriter, r *http.Request) {
	audit, err := h.svc.AuditBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audit)
}

// DebugBoards dumps the caller's view of the board space plus the raw
// membership audit of every board, flagging non-string identifier
// entries.
func (h *RepairHandler) DebugBoards(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	report, err := h.svc.DebugBoards(r.Context(), ident.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
