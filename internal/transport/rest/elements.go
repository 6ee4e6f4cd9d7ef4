package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
	"github.com/croswell/inventario/internal/service/element"
)

// elementService defines the minimal interface needed by ElementHandler.
type elementService interface {
	CreateElement(ctx context.Context, input element.CreateElementInput) (*domain.Element, error)
	UpdateElement(ctx context.Context, input element.UpdateElementInput) (*domain.Element, error)
	GetElement(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error)
	GetHistory(ctx context.Context, domainID, elementID uuid.UUID) ([]domain.AttributeHistory, error)
	Ancestors(ctx context.Context, domainID, elementID uuid.UUID) ([]*domain.Element, error)
	Descendants(ctx context.Context, domainID, elementID uuid.UUID) ([]*domain.Element, error)
	CreateImplementation(ctx context.Context, input element.CreateImplementationInput) (*domain.Element, error)
	Search(ctx context.Context, input element.SearchInput) ([]*domain.Element, error)
}

// ElementHandler serves element REST endpoints.
type ElementHandler struct {
	svc elementService
	log *slog.Logger
}

// NewElementHandler creates an ElementHandler.
func NewElementHandler(svc elementService, logger *slog.Logger) *ElementHandler {
	return &ElementHandler{svc: svc, log: logger.With("handler", "elements")}
}

type attributeValuePayload struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

type createElementRequest struct {
	ClassID    string                  `json:"classId"`
	ParentID   *string                 `json:"parentId,omitempty"`
	Name       string                  `json:"name"`
	Attributes []attributeValuePayload `json:"attributes,omitempty"`
	TagIDs     []string                `json:"tagIds,omitempty"`
}

type updateElementRequest struct {
	Name       *string                 `json:"name,omitempty"`
	ParentID   *string                 `json:"parentId,omitempty"`
	MoveToRoot bool                    `json:"moveToRoot,omitempty"`
	Attributes []attributeValuePayload `json:"attributes,omitempty"`
	TagIDs     []string                `json:"tagIds,omitempty"`
}

type elementResponse struct {
	ID            string                  `json:"id"`
	DomainID      string                  `json:"domainId"`
	ClassID       string                  `json:"classId"`
	ParentID      *string                 `json:"parentId,omitempty"`
	Name          string                  `json:"name"`
	Path          string                  `json:"path"`
	ImplementedBy *string                 `json:"implementedBy,omitempty"`
	Attributes    []attributeValuePayload `json:"attributes"`
	TagIDs        []string                `json:"tagIds"`
	CreatedAt     time.Time               `json:"createdAt"`
	CreatedBy     string                  `json:"createdBy,omitempty"`
	UpdatedAt     time.Time               `json:"updatedAt"`
	UpdatedBy     string                  `json:"updatedBy,omitempty"`
}

type historyRecordResponse struct {
	ID        string                `json:"id"`
	ElementID string                `json:"elementId"`
	Value     attributeValuePayload `json:"value"`
	CreatedAt time.Time             `json:"createdAt"`
	CreatedBy string                `json:"createdBy,omitempty"`
}

// Create handles POST /domains/{domainID}/elements.
func (h *ElementHandler) Create(w http.ResponseWriter, r *http.Request) {
	domainID, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, domainID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req createElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := toCreateElementInput(domainID, req)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	e, err := h.svc.CreateElement(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toElementResponse(e))
}

// Update handles PATCH /domains/{domainID}/elements/{elementID}.
func (h *ElementHandler) Update(w http.ResponseWriter, r *http.Request) {
	domainID, elementID, err := pathDomainElement(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, domainID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := element.UpdateElementInput{
		DomainID:   domainID,
		ElementID:  elementID,
		Name:       req.Name,
		MoveToRoot: req.MoveToRoot,
		Attributes: toAttributeInputs(req.Attributes),
	}
	if req.ParentID != nil {
		pid, perr := uuid.Parse(*req.ParentID)
		if perr != nil {
			handleError(w, r, h.log, domain.NewValidationError("parentId", "must be a UUID"))
			return
		}
		input.ParentID = &pid
	}
	if input.TagIDs, err = parseUUIDs("tagIds", req.TagIDs); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	e, err := h.svc.UpdateElement(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toElementResponse(e))
}

// Get handles GET /domains/{domainID}/elements/{elementID}.
func (h *ElementHandler) Get(w http.ResponseWriter, r *http.Request) {
	domainID, elementID, err := pathDomainElement(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	e, err := h.svc.GetElement(r.Context(), domainID, elementID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toElementResponse(e))
}

// History handles GET /domains/{domainID}/elements/{elementID}/history.
// Records are returned newest first.
func (h *ElementHandler) History(w http.ResponseWriter, r *http.Request) {
	domainID, elementID, err := pathDomainElement(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	records, err := h.svc.GetHistory(r.Context(), domainID, elementID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]historyRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, historyRecordResponse{
			ID:        rec.ID.String(),
			ElementID: rec.ElementID.String(),
			Value: attributeValuePayload{
				Name:  rec.Value.AttrName(),
				Type:  string(rec.Value.Type()),
				Value: rec.Value.Format(),
			},
			CreatedAt: rec.CreatedAt,
			CreatedBy: rec.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Ancestors handles GET /domains/{domainID}/elements/{elementID}/ancestors.
// The chain is returned nearest parent first.
func (h *ElementHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	h.listRelatives(w, r, h.svc.Ancestors)
}

// Descendants handles GET /domains/{domainID}/elements/{elementID}/descendants.
// The subtree is returned in depth order, path-sorted within each depth.
func (h *ElementHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	h.listRelatives(w, r, h.svc.Descendants)
}

func (h *ElementHandler) listRelatives(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, domainID, elementID uuid.UUID) ([]*domain.Element, error),
) {
	domainID, elementID, err := pathDomainElement(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	elems, err := list(r.Context(), domainID, elementID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toElementResponses(elems))
}

// Implement handles POST /domains/{domainID}/elements/{elementID}/implementation.
// The request body describes the implementation element to create.
func (h *ElementHandler) Implement(w http.ResponseWriter, r *http.Request) {
	domainID, elementID, err := pathDomainElement(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, domainID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req createElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inner, err := toCreateElementInput(domainID, req)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	impl, err := h.svc.CreateImplementation(r.Context(), element.CreateImplementationInput{
		DomainID:        domainID,
		SourceElementID: elementID,
		Element:         inner,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toElementResponse(impl))
}

// Search handles GET /elements/search. Query parameters:
//
//	anchorId     window anchor element (optional)
//	contextSize  elements before the anchor (requires anchorId)
//	limit        elements at or after the anchor
//	domainId     restrict to one domain
//	tagIds       comma-separated tag ids
//	matchAllTags true to require every tag instead of any
//	q            case-insensitive name substring
func (h *ElementHandler) Search(w http.ResponseWriter, r *http.Request) {
	input, err := searchInputFromQuery(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	elems, err := h.svc.Search(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toElementResponses(elems))
}

func searchInputFromQuery(r *http.Request) (element.SearchInput, error) {
	q := r.URL.Query()
	input := element.SearchInput{Text: q.Get("q")}

	if raw := q.Get("anchorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, domain.NewValidationError("anchorId", "must be a UUID")
		}
		input.AnchorID = &id
	}
	if raw := q.Get("domainId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, domain.NewValidationError("domainId", "must be a UUID")
		}
		input.DomainID = &id
	}
	if raw := q.Get("contextSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, domain.NewValidationError("contextSize", "must be an integer")
		}
		input.ContextSize = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, domain.NewValidationError("limit", "must be an integer")
		}
		input.Limit = n
	}
	if raw := q.Get("tagIds"); raw != "" {
		ids, err := parseUUIDs("tagIds", strings.Split(raw, ","))
		if err != nil {
			return input, err
		}
		input.TagIDs = ids
	}
	input.MatchAllTags = q.Get("matchAllTags") == "true"

	return input, nil
}

func pathDomainElement(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	domainID, err := pathUUID(r, "domainID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	elementID, err := pathUUID(r, "elementID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return domainID, elementID, nil
}

func toCreateElementInput(domainID uuid.UUID, req createElementRequest) (element.CreateElementInput, error) {
	input := element.CreateElementInput{
		DomainID:   domainID,
		Name:       req.Name,
		Attributes: toAttributeInputs(req.Attributes),
	}

	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return input, domain.NewValidationError("classId", "must be a UUID")
	}
	input.ClassID = classID

	if req.ParentID != nil {
		pid, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return input, domain.NewValidationError("parentId", "must be a UUID")
		}
		input.ParentID = &pid
	}
	if input.TagIDs, err = parseUUIDs("tagIds", req.TagIDs); err != nil {
		return input, err
	}
	return input, nil
}

func toAttributeInputs(payloads []attributeValuePayload) []class.AttributeInput {
	if payloads == nil {
		return nil
	}
	inputs := make([]class.AttributeInput, len(payloads))
	for i, p := range payloads {
		inputs[i] = class.AttributeInput{Name: p.Name, Value: p.Value}
	}
	return inputs
}

func toElementResponses(elems []*domain.Element) []elementResponse {
	resp := make([]elementResponse, 0, len(elems))
	for _, e := range elems {
		resp = append(resp, toElementResponse(e))
	}
	return resp
}

func toElementResponse(e *domain.Element) elementResponse {
	attrs := make([]attributeValuePayload, 0, len(e.Attributes))
	for _, v := range e.Attributes {
		attrs = append(attrs, attributeValuePayload{
			Name:  v.AttrName(),
			Type:  string(v.Type()),
			Value: v.Format(),
		})
	}

	resp := elementResponse{
		ID:         e.ID.String(),
		DomainID:   e.DomainID.String(),
		ClassID:    e.ClassID.String(),
		Name:       e.Name,
		Path:       e.Path,
		Attributes: attrs,
		TagIDs:     uuidStrings(e.TagIDs),
		CreatedAt:  e.CreatedAt,
		CreatedBy:  e.CreatedBy,
		UpdatedAt:  e.UpdatedAt,
		UpdatedBy:  e.UpdatedBy,
	}
	if e.ParentID != nil {
		s := e.ParentID.String()
		resp.ParentID = &s
	}
	if e.ImplementedBy != nil {
		s := e.ImplementedBy.String()
		resp.ImplementedBy = &s
	}
	return resp
}
