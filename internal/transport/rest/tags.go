package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// tagService defines the minimal interface needed by TagHandler.
type tagService interface {
	Ensure(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error)
	Remove(ctx context.Context, domainID, tagID uuid.UUID) error
	List(ctx context.Context, domainID uuid.UUID) ([]domain.Tag, error)
}

// TagHandler serves tag REST endpoints.
type TagHandler struct {
	svc tagService
	log *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(svc tagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: logger.With("handler", "tags")}
}

type ensureTagRequest struct {
	Name string `json:"name"`
}

// Ensure handles PUT /domains/{domainID}/tags. Ensuring the same name
// twice returns the same tag, so the endpoint is idempotent.
func (h *TagHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	domainID, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, domainID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req ensureTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.Ensure(r.Context(), domainID, req.Name)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, tagResponse{ID: t.ID.String(), Name: t.Name})
}

// Remove handles DELETE /domains/{domainID}/tags/{tagID}. Tags still
// referenced by elements cannot be removed.
func (h *TagHandler) Remove(w http.ResponseWriter, r *http.Request) {
	domainID, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	tagID, err := pathUUID(r, "tagID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, domainID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Remove(r.Context(), domainID, tagID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /domains/{domainID}/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	domainID, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	tags, err := h.svc.List(r.Context(), domainID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, tagResponse{ID: t.ID.String(), Name: t.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}
