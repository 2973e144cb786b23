package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kanban-api/internal/application/notification"
	"github.com/go-kanban-api/internal/application/reconcile"
	"github.com/go-kanban-api/internal/domain"
	"github.com/go-kanban-api/internal/transport/http/middleware"
)

// NotificationHandler handles the notification endpoints. Marking a
// board invite read also re-checks the membership it implies, so the
// act of acknowledging an invite heals a half-finished one.
type NotificationHandler struct {
	svc      notification.Service
	repairer reconcile.Service
}

func NewNotificationHandler(svc notification.Service, repairer reconcile.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc, repairer: repairer}
}

// List always answers 200 with an array; store faults surface as an
// empty list.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ListFor(r.Context(), ident.UserID))
}

// MarkReadRequest carries the target read state. An absent body or
// field means "mark read".
type MarkReadRequest struct {
	IsRead *bool `json:"isRead"`
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	isRead := true
	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.IsRead != nil {
		isRead = *req.IsRead
	}
	notificationID := chi.URLParam(r, "id")
	n, err := h.svc.MarkRead(r.Context(), notificationID, ident.UserID, isRead)
	if err != nil {
		httpError(w, err)
		return
	}
	if isRead && n.Type == domain.NotificationTypeBoardInvite && h.repairer != nil {
		if err := h.repairer.RepairFromNotification(r.Context(), notificationID); err != nil {
			slog.Warn("opportunistic membership repair failed",
				"notification_id", notificationID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) ReadAll(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	modified := h.svc.MarkAllRead(r.Context(), ident.UserID)
	writeJSON(w, http.StatusOK, map[string]int{"modified_count": modified})
}
