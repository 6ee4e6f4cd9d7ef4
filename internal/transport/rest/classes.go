package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
)

// classService defines the minimal interface needed by ClassHandler.
type classService interface {
	CreateClass(ctx context.Context, input class.CreateClassInput) (*domain.Class, error)
	UpdateClass(ctx context.Context, input class.UpdateClassInput) (*domain.Class, error)
	GetFullClass(ctx context.Context, id uuid.UUID) (*class.FullClass, error)
	ListClasses(ctx context.Context) ([]*domain.Class, error)
}

// ClassHandler serves class REST endpoints.
type ClassHandler struct {
	svc classService
	log *slog.Logger
}

// NewClassHandler creates a ClassHandler.
func NewClassHandler(svc classService, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{svc: svc, log: logger.With("handler", "classes")}
}

type attributeDefPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Mandatory   bool   `json:"mandatory"`
	Type        string `json:"type"`
	Unit        string `json:"unit,omitempty"`
}

type createClassRequest struct {
	Name              string                `json:"name"`
	Type              string                `json:"type"`
	Extends           []string              `json:"extends,omitempty"`
	PermittedChildren []string              `json:"permittedChildren,omitempty"`
	ImplementedBy     []string              `json:"implementedBy,omitempty"`
	Attributes        []attributeDefPayload `json:"attributes,omitempty"`
}

type updateClassRequest struct {
	Name              *string               `json:"name,omitempty"`
	Extends           []string              `json:"extends,omitempty"`
	PermittedChildren []string              `json:"permittedChildren,omitempty"`
	ImplementedBy     []string              `json:"implementedBy,omitempty"`
	Attributes        []attributeDefPayload `json:"attributes,omitempty"`
}

type classResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Type              string                `json:"type"`
	Extends           []string              `json:"extends"`
	PermittedChildren []string              `json:"permittedChildren"`
	ImplementedBy     []string              `json:"implementedBy"`
	Attributes        []attributeDefPayload `json:"attributes"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

type fullClassResponse struct {
	classResponse
	EffectiveAttributes []attributeDefPayload `json:"effectiveAttributes"`
	AncestorIDs         []string              `json:"ancestorIds"`
}

// Create handles POST /classes.
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := class.CreateClassInput{
		Name:       req.Name,
		Type:       domain.ClassType(req.Type),
		Attributes: toAttributeDefInputs(req.Attributes),
	}
	var err error
	if input.Extends, err = parseUUIDs("extends", req.Extends); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if input.PermittedChildren, err = parseUUIDs("permittedChildren", req.PermittedChildren); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if input.ImplementedBy, err = parseUUIDs("implementedBy", req.ImplementedBy); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	c, err := h.svc.CreateClass(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClassResponse(c))
}

// Update handles PUT /classes/{classID}.
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "classID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := class.UpdateClassInput{
		ClassID:    id,
		Name:       req.Name,
		Attributes: toAttributeDefInputs(req.Attributes),
	}
	if input.Extends, err = parseUUIDs("extends", req.Extends); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if input.PermittedChildren, err = parseUUIDs("permittedChildren", req.PermittedChildren); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if input.ImplementedBy, err = parseUUIDs("implementedBy", req.ImplementedBy); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	c, err := h.svc.UpdateClass(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toClassResponse(c))
}

// Get handles GET /classes/{classID}. The response includes the effective
// attribute set resolved over the full extends-graph.
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "classID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	fc, err := h.svc.GetFullClass(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := fullClassResponse{
		classResponse:       toClassResponse(fc.Class),
		EffectiveAttributes: toAttributePayloads(fc.EffectiveAttributes),
		AncestorIDs:         uuidStrings(fc.AncestorIDs),
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /classes.
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListClasses(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]classResponse, 0, len(cs))
	for _, c := range cs {
		resp = append(resp, toClassResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toAttributeDefInputs(payloads []attributeDefPayload) []class.AttributeDefInput {
	if payloads == nil {
		return nil
	}
	defs := make([]class.AttributeDefInput, len(payloads))
	for i, p := range payloads {
		defs[i] = class.AttributeDefInput{
			Name:        p.Name,
			Description: p.Description,
			Mandatory:   p.Mandatory,
			Type:        domain.AttributeType(p.Type),
			Unit:        p.Unit,
		}
	}
	return defs
}

func toAttributePayloads(attrs []domain.Attribute) []attributeDefPayload {
	payloads := make([]attributeDefPayload, 0, len(attrs))
	for _, a := range attrs {
		payloads = append(payloads, attributeDefPayload{
			Name:        a.Name,
			Description: a.Description,
			Mandatory:   a.Mandatory,
			Type:        string(a.Type),
			Unit:        a.Unit,
		})
	}
	return payloads
}

func toClassResponse(c *domain.Class) classResponse {
	return classResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Type:              string(c.Type),
		Extends:           uuidStrings(c.Extends),
		PermittedChildren: uuidStrings(c.PermittedChildren),
		ImplementedBy:     uuidStrings(c.ImplementedBy),
		Attributes:        toAttributePayloads(c.Attributes),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func parseUUIDs(field string, raws []string) ([]uuid.UUID, error) {
	if raws == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(raws))
	for i, raw := range raws {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.NewValidationError(field, "must be a list of UUIDs")
		}
		ids[i] = id
	}
	return ids, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
