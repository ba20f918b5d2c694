package handlers

import (
	"net/http"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves one entity kind.
type CatalogHandler struct {
	catalog *service.CatalogService
	kind    domain.Kind
	logger  *zap.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, kind domain.Kind, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, kind: kind, logger: logger}
}

// List serves GET /{kind}. With a search parameter it answers like Search
// but keeps the single-match shape: one match is returned as the entity.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("search") {
		h.search(w, r, query.Get("search"), false)
		return
	}

	q := domain.List(h.kind, parseInt(query.Get("page"), 0), parseInt(query.Get("limit"), 0))
	res, err := h.catalog.Execute(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, "catalog.List", h.kind, err)
		return
	}
	respondJSON(w, http.StatusOK, res.Body())
}

// Search serves GET /{kind}/search?q= and always answers with a sequence.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, r.URL.Query().Get("q"), true)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request, term string, alwaysList bool) {
	res, err := h.catalog.Execute(r.Context(), domain.Search(h.kind, term))
	if err != nil {
		respondServiceError(w, h.logger, "catalog.Search", h.kind, err)
		return
	}
	if alwaysList {
		respondJSON(w, http.StatusOK, res.Entities)
		return
	}
	respondJSON(w, http.StatusOK, res.Body())
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.catalog.Execute(r.Context(), domain.ByID(h.kind, id))
	if err != nil {
		respondServiceError(w, h.logger, "catalog.Get", h.kind, err)
		return
	}
	respondJSON(w, http.StatusOK, res.Body())
}

// KindsResponse describes the served kinds.
type KindsResponse struct {
	Kinds []KindInfo `json:"kinds"`
}

type KindInfo struct {
	Kind               domain.Kind `json:"kind"`
	Collection         string      `json:"collection"`
	FallbackOnNotFound bool        `json:"fallbackOnNotFound"`
	DefaultLimit       int         `json:"defaultLimit"`
	Fields             []string    `json:"fields"`
}

// Kinds serves GET /kinds.
func Kinds(catalog *service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := KindsResponse{Kinds: []KindInfo{}}
		for _, p := range catalog.Policies() {
			resp.Kinds = append(resp.Kinds, KindInfo{
				Kind:               p.Kind,
				Collection:         p.Kind.Plural(),
				FallbackOnNotFound: p.FallbackOnNotFound,
				DefaultLimit:       p.DefaultLimit,
				Fields:             domain.SchemaFor(p.Kind).FieldSet(),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
