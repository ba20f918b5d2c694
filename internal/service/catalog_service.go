package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/normalize"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/dom/catalog-facade/internal/upstream"
)

// RemoteSource is the outbound side of the facade, satisfied by *upstream.Client.
type RemoteSource interface {
	Enabled() bool
	Do(ctx context.Context, req upstream.Request) ([]byte, error)
}

// Source tells which side answered a query. It is reported to logs only;
// the envelope shape never depends on it.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Orchestrator states, logged on every transition.
const (
	stateRemoteAttempt   = "REMOTE_ATTEMPT"
	stateRemoteSuccess   = "REMOTE_SUCCESS"
	stateRemoteFailed    = "REMOTE_FAILED"
	stateFallbackAttempt = "FALLBACK_ATTEMPT"
	stateFallbackSuccess = "FALLBACK_SUCCESS"
	stateFallbackMiss    = "FALLBACK_NOTFOUND"
)

// Result is the answer to one query. Entity is set for get-by-id, Entities
// for search and List for list queries.
type Result struct {
	Query    domain.Query
	Entity   domain.Entity
	Entities []domain.Entity
	List     *domain.ListResult
	Source   Source
}

// Body returns the caller-facing envelope. A search with exactly one match
// answers with the entity itself, otherwise with the sequence.
func (r *Result) Body() any {
	switch r.Query.Type {
	case domain.QueryByID:
		return r.Entity
	case domain.QuerySearch:
		if len(r.Entities) == 1 {
			return r.Entities[0]
		}
		return r.Entities
	default:
		return r.List
	}
}

// CatalogService runs every query remote-first and falls back to the
// snapshot on any classified remote failure.
type CatalogService struct {
	remote   RemoteSource
	fallback *snapshot.Resolver
	policies map[domain.Kind]config.EntityPolicy
	logger   *zap.Logger
}

func NewCatalogService(remote RemoteSource, fallback *snapshot.Resolver, policies map[domain.Kind]config.EntityPolicy, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		remote:   remote,
		fallback: fallback,
		policies: policies,
		logger:   logger,
	}
}

// Policy returns the policy for kind.
func (s *CatalogService) Policy(kind domain.Kind) (config.EntityPolicy, bool) {
	p, ok := s.policies[kind]
	return p, ok
}

// Policies returns the served kinds' policies in display order.
func (s *CatalogService) Policies() []config.EntityPolicy {
	out := make([]config.EntityPolicy, 0, len(s.policies))
	for _, k := range domain.Kinds {
		if p, ok := s.policies[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) GetByID(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	res, err := s.Execute(ctx, domain.ByID(kind, id))
	if err != nil {
		return nil, err
	}
	return res.Entity, nil
}

func (s *CatalogService) Search(ctx context.Context, kind domain.Kind, term string) ([]domain.Entity, error) {
	res, err := s.Execute(ctx, domain.Search(kind, term))
	if err != nil {
		return nil, err
	}
	return res.Entities, nil
}

func (s *CatalogService) List(ctx context.Context, kind domain.Kind, page, limit int) (*domain.ListResult, error) {
	res, err := s.Execute(ctx, domain.List(kind, page, limit))
	if err != nil {
		return nil, err
	}
	return res.List, nil
}

// Execute answers q. Classified remote failures never reach the caller;
// they are absorbed by re-running q against the snapshot. Remote not-found
// is final unless the kind's policy allows falling back for id and search
// queries.
func (s *CatalogService) Execute(ctx context.Context, q domain.Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	policy, ok := s.policies[q.Kind]
	if !ok {
		return nil, &domain.ValidationError{Field: "kind", Message: "kind " + string(q.Kind) + " is not served"}
	}
	q = q.WithDefaults(policy.DefaultLimit)

	log := s.logger.With(
		zap.String("kind", string(q.Kind)),
		zap.Stringer("query", q.Type),
		zap.String("key", queryKey(q)),
	)

	if s.remote != nil && s.remote.Enabled() {
		log.Debug("[catalog.Execute] transition", zap.String("state", stateRemoteAttempt))
		res, err := s.fromRemote(ctx, q, policy)
		if err == nil {
			log.Debug("[catalog.Execute] transition", zap.String("state", stateRemoteSuccess))
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Info("[catalog.Execute] caller went away", zap.Error(ctxErr))
			return nil, ctxErr
		}
		if errors.Is(err, domain.ErrNotFound) && !fallsBackOnNotFound(q, policy) {
			log.Debug("[catalog.Execute] remote answered not found", zap.Error(err))
			return nil, domain.NotFound(q.Kind, queryKey(q))
		}
		log.Warn("[catalog.Execute] remote failed, serving fallback",
			zap.String("state", stateRemoteFailed),
			zap.Error(err),
		)
	}

	log.Debug("[catalog.Execute] transition", zap.String("state", stateFallbackAttempt))
	res, err := s.fromFallback(q)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug("[catalog.Execute] transition", zap.String("state", stateFallbackMiss))
		} else {
			log.Error("[catalog.Execute] fallback failed", zap.Error(err))
		}
		return nil, err
	}
	log.Debug("[catalog.Execute] transition", zap.String("state", stateFallbackSuccess))
	return res, nil
}

func fallsBackOnNotFound(q domain.Query, policy config.EntityPolicy) bool {
	return policy.FallbackOnNotFound && q.Type != domain.QueryList
}

func queryKey(q domain.Query) string {
	switch q.Type {
	case domain.QueryByID:
		return q.ID
	case domain.QuerySearch:
		return q.Search
	}
	return strconv.Itoa(q.Page) + "/" + strconv.Itoa(q.Limit)
}

func (s *CatalogService) fromRemote(ctx context.Context, q domain.Query, policy config.EntityPolicy) (*Result, error) {
	req := upstream.Request{Method: http.MethodGet, Path: policy.Path}
	expect := upstream.ShapeAny

	switch q.Type {
	case domain.QueryByID:
		req.Path = policy.Path + "/" + url.PathEscape(q.ID)
	case domain.QuerySearch:
		req.Query = url.Values{"search": {q.Search}}
	case domain.QueryList:
		req.Query = url.Values{
			"page":  {strconv.Itoa(q.Page)},
			"limit": {strconv.Itoa(q.Limit)},
		}
		for _, field := range q.WhereFields() {
			req.Query.Set(field, q.Where[field])
		}
		expect = upstream.ShapeArray
	}

	body, err := s.remote.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := upstream.Parse(body, expect)
	if err != nil {
		return nil, err
	}

	schema := domain.SchemaFor(q.Kind)
	res := &Result{Query: q, Source: SourceRemote}
	switch q.Type {
	case domain.QueryByID:
		res.Entity, err = normalize.ByID(schema, q.ID, payload)
	case domain.QuerySearch:
		res.Entities, err = normalize.Search(schema, q.Search, payload)
	case domain.QueryList:
		res.List, err = remoteList(schema, q, payload)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// remoteList builds the list envelope for a remote answer. When the upstream
// paginated the list itself its paging fields are echoed; otherwise the
// answer is treated as the whole collection and paged locally.
func remoteList(schema *domain.Schema, q domain.Query, payload domain.Payload) (*domain.ListResult, error) {
	items := normalize.List(schema, payload)

	meta := payload.Meta
	if meta == nil {
		items = q.Filter(items)
		return domain.NewListResult(items, domain.Paginate(len(items), q.Page, q.Limit)), nil
	}

	page, limit := q.Page, q.Limit
	if meta.Page > 0 {
		page = meta.Page
	}
	if meta.Limit > 0 {
		limit = meta.Limit
	}
	p := domain.Paginate(meta.Total, page, limit)
	if len(items) < p.Count() {
		return nil, &domain.FormatError{Reason: "page shorter than advertised total"}
	}
	return &domain.ListResult{
		Data:       items[:p.Count()],
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}, nil
}

func (s *CatalogService) fromFallback(q domain.Query) (*Result, error) {
	res := &Result{Query: q, Source: SourceFallback}
	var err error
	switch q.Type {
	case domain.QueryByID:
		res.Entity, err = s.fallback.GetByID(q.Kind, q.ID)
	case domain.QuerySearch:
		res.Entities, err = s.fallback.Search(q.Kind, q.Search)
	default:
		res.List, err = s.fallback.List(q)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
