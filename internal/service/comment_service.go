package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/normalize"
	"github.com/dom/catalog-facade/internal/upstream"
)

type CommentInput struct {
	NewsID   string `json:"newsId"`
	ParentID string `json:"parentId,omitempty"`
	Author   string `json:"author"`
	Content  string `json:"content"`
}

func (in CommentInput) Validate() error {
	switch {
	case strings.TrimSpace(in.NewsID) == "":
		return &domain.ValidationError{Field: "newsId", Message: "is required"}
	case strings.TrimSpace(in.Author) == "":
		return &domain.ValidationError{Field: "author", Message: "is required"}
	case strings.TrimSpace(in.Content) == "":
		return &domain.ValidationError{Field: "content", Message: "is required"}
	}
	return nil
}

// CommentService forwards comment writes to the remote source. The snapshot
// is read-only, so writes have no fallback.
type CommentService struct {
	remote RemoteSource
	policy config.EntityPolicy
	logger *zap.Logger
	now    func() time.Time
}

func NewCommentService(remote RemoteSource, policy config.EntityPolicy, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		remote: remote,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CommentService) Create(ctx context.Context, in CommentInput) (domain.Entity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.remote == nil || !s.remote.Enabled() {
		return nil, fmt.Errorf("%w: no remote source configured", domain.ErrUpstreamUnavailable)
	}

	record := map[string]any{
		"id":        uuid.NewString(),
		"newsId":    strings.TrimSpace(in.NewsID),
		"author":    strings.TrimSpace(in.Author),
		"content":   in.Content,
		"createdAt": s.now().UTC().Format(time.RFC3339),
	}
	if in.ParentID != "" {
		record["parentId"] = in.ParentID
	}

	schema := domain.SchemaFor(domain.KindComment)
	body, err := s.remote.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   s.policy.Path,
		Body:   record,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.KindNews, in.NewsID)
		}
		s.logger.Warn("[comment.Create] remote write failed", zap.String("newsId", in.NewsID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	payload, err := upstream.Parse(body, upstream.ShapeObject)
	if err != nil {
		// The write was accepted; answer with what was sent.
		s.logger.Warn("[comment.Create] unreadable write response", zap.String("id", record["id"].(string)), zap.Error(err))
		return normalize.Entity(schema, record), nil
	}
	return normalize.Entity(schema, payload.Single), nil
}
