package rest

import (
	"net/http"

	"github.com/croswell/inventario/internal/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Domains  *DomainHandler
	Classes  *ClassHandler
	Elements *ElementHandler
	Tags     *TagHandler
}

// NewRouter builds the HTTP route table. Middleware is applied by the
// caller around the returned mux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/domains", h.Domains.Create)
	mux.HandleFunc("GET /api/v1/domains", h.Domains.List)
	mux.HandleFunc("GET /api/v1/domains/{domainID}", h.Domains.Get)
	mux.HandleFunc("POST /api/v1/domains/{domainID}/credentials", h.Domains.IssueCredentials)

	mux.HandleFunc("POST /api/v1/classes", h.Classes.Create)
	mux.HandleFunc("GET /api/v1/classes", h.Classes.List)
	mux.HandleFunc("GET /api/v1/classes/{classID}", h.Classes.Get)
	mux.HandleFunc("PUT /api/v1/classes/{classID}", h.Classes.Update)

	mux.HandleFunc("POST /api/v1/domains/{domainID}/elements", h.Elements.Create)
	mux.HandleFunc("GET /api/v1/domains/{domainID}/elements/{elementID}", h.Elements.Get)
	mux.HandleFunc("PATCH /api/v1/domains/{domainID}/elements/{elementID}", h.Elements.Update)
	mux.HandleFunc("GET /api/v1/domains/{domainID}/elements/{elementID}/history", h.Elements.History)
	mux.HandleFunc("GET /api/v1/domains/{domainID}/elements/{elementID}/ancestors", h.Elements.Ancestors)
	mux.HandleFunc("GET /api/v1/domains/{domainID}/elements/{elementID}/descendants", h.Elements.Descendants)
	mux.HandleFunc("POST /api/v1/domains/{domainID}/elements/{elementID}/implementation", h.Elements.Implement)
	mux.HandleFunc("GET /api/v1/elements/search", h.Elements.Search)

	mux.HandleFunc("PUT /api/v1/domains/{domainID}/tags", h.Tags.Ensure)
	mux.HandleFunc("GET /api/v1/domains/{domainID}/tags", h.Tags.List)
	mux.HandleFunc("DELETE /api/v1/domains/{domainID}/tags/{tagID}", h.Tags.Remove)

	return mux
}
