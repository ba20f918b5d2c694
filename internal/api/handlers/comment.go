package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/catalog-facade/internal/api/middleware"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	catalog  *service.CatalogService
	comments *service.CommentService
	logger   *zap.Logger
}

func NewCommentHandler(catalog *service.CatalogService, comments *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{catalog: catalog, comments: comments, logger: logger}
}

// ForNews serves GET /news/{id}/comments, paged like any list.
func (h *CommentHandler) ForNews(w http.ResponseWriter, r *http.Request) {
	newsID := chi.URLParam(r, "id")
	query := r.URL.Query()

	q := domain.List(domain.KindComment, parseInt(query.Get("page"), 0), parseInt(query.Get("limit"), 0)).
		WithWhere("newsId", newsID)
	res, err := h.catalog.Execute(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, "comment.ForNews", domain.KindComment, err)
		return
	}
	respondJSON(w, http.StatusOK, res.Body())
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The verified token subject is the author.
	if subject, ok := middleware.GetSubject(r.Context()); ok {
		req.Author = subject
	}

	comment, err := h.comments.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, "comment.Create", domain.KindComment, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}
