package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/domains"
)

// domainService defines the minimal interface needed by DomainHandler.
type domainService interface {
	CreateDomain(ctx context.Context, input domains.CreateDomainInput) (*domain.Domain, error)
	GetDomain(ctx context.Context, id uuid.UUID) (*domain.Domain, error)
	ListDomains(ctx context.Context) ([]*domain.Domain, error)
	IssueCredentials(ctx context.Context, domainID uuid.UUID) (*domains.Credentials, error)
}

// DomainHandler serves domain REST endpoints.
type DomainHandler struct {
	svc domainService
	log *slog.Logger
}

// NewDomainHandler creates a DomainHandler.
func NewDomainHandler(svc domainService, logger *slog.Logger) *DomainHandler {
	return &DomainHandler{svc: svc, log: logger.With("handler", "domains")}
}

type createDomainRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type domainResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Tags        []tagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type credentialsResponse struct {
	AccessToken string `json:"accessToken"`
	APIToken    string `json:"apiToken"`
}

// Create handles POST /domains.
func (h *DomainHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.CreateDomain(r.Context(), domains.CreateDomainInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDomainResponse(d))
}

// Get handles GET /domains/{domainID}.
func (h *DomainHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	d, err := h.svc.GetDomain(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDomainResponse(d))
}

// List handles GET /domains.
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	ds, err := h.svc.ListDomains(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]domainResponse, 0, len(ds))
	for _, d := range ds {
		resp = append(resp, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// IssueCredentials handles POST /domains/{domainID}/credentials.
// The static API token in the response is shown exactly once.
func (h *DomainHandler) IssueCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "domainID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := authorizeDomain(r, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	creds, err := h.svc.IssueCredentials(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, credentialsResponse{
		AccessToken: creds.AccessToken,
		APIToken:    creds.APIToken,
	})
}

func toDomainResponse(d *domain.Domain) domainResponse {
	tags := make([]tagResponse, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, tagResponse{ID: t.ID.String(), Name: t.Name})
	}
	return domainResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
