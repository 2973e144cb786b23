package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kanban-api/internal/application/board"
	"github.com/go-kanban-api/internal/domain"
	s3infra "github.com/go-kanban-api/internal/infrastructure/s3"
	"github.com/go-kanban-api/internal/pkg/validate"
	"github.com/go-kanban-api/internal/transport/http/middleware"
)

// maxBackgroundUpload caps board background images at 10 MiB.
const maxBackgroundUpload = 10 << 20

// BoardHandler handles board, column and card endpoints.
type BoardHandler struct {
	svc board.Service
}

func NewBoardHandler(svc board.Service) *BoardHandler { return &BoardHandler{svc: svc} }

func requesterID(r *http.Request) (string, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return "", false
	}
	return ident.UserID, true
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// List returns the boards the caller can see. ?filter=owned or
// ?filter=shared narrows the result; the default is both.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var (
		boards []domain.Board
		err    error
	)
	switch r.URL.Query().Get("filter") {
	case "owned":
		boards, err = h.svc.ListOwned(r.Context(), uid)
	case "shared":
		boards, err = h.svc.ListShared(r.Context(), uid)
	default:
		boards, err = h.svc.List(r.Context(), uid)
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	b, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	columns, cards, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "board deleted",
		"deleted_columns": columns,
		"deleted_cards":   cards,
	})
}

// SetBackground accepts a multipart upload under the "image" field and
// stores it as the board background.
func (h *BoardHandler) SetBackground(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxBackgroundUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = s3infra.DetectContentType(header.Filename)
	}
	b, err := h.svc.SetBackground(r.Context(), chi.URLParam(r, "id"), uid, header.Filename, contentType, file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BoardHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	columns, err := h.svc.ListColumns(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateColumnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.CreateColumn(r.Context(), chi.URLParam(r, "id"), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *BoardHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateColumnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.UpdateColumn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "columnID"), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteColumn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "columnID"), uid); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "column deleted"})
}

func (h *BoardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cards, err := h.svc.ListCards(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *BoardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.CreateCard(r.Context(), chi.URLParam(r, "id"), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *BoardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.UpdateCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardID"), uid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *BoardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardID"), uid); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "card deleted"})
}
