package snapshot

import (
	"fmt"

	"github.com/dom/catalog-facade/internal/domain"
)

// Resolver answers queries from the snapshot with the same semantics as the
// remote path. It only fails with not-found, or with
// domain.ErrSnapshotUnavailable when a kind was never loaded.
type Resolver struct {
	snapshot *Snapshot
}

func NewResolver(s *Snapshot) *Resolver {
	return &Resolver{snapshot: s}
}

func (r *Resolver) collection(kind domain.Kind) ([]domain.Entity, error) {
	if r.snapshot == nil {
		return nil, fmt.Errorf("%w: no snapshot loaded", domain.ErrSnapshotUnavailable)
	}
	entities, ok := r.snapshot.view(kind)
	if !ok {
		return nil, fmt.Errorf("%w: no %s collection", domain.ErrSnapshotUnavailable, kind)
	}
	return entities, nil
}

func (r *Resolver) GetByID(kind domain.Kind, id string) (domain.Entity, error) {
	entities, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if e.ID() == id {
			return e.Clone(), nil
		}
	}
	return nil, domain.NotFound(kind, id)
}

func (r *Resolver) Search(kind domain.Kind, term string) ([]domain.Entity, error) {
	entities, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	schema := domain.SchemaFor(kind)
	var out []domain.Entity
	for _, e := range entities {
		if schema.Matches(e, term) {
			out = append(out, e.Clone())
		}
	}
	if len(out) == 0 {
		return nil, domain.NotFound(kind, term)
	}
	return out, nil
}

// List pages through the entities accepted by q.
func (r *Resolver) List(q domain.Query) (*domain.ListResult, error) {
	entities, err := r.collection(q.Kind)
	if err != nil {
		return nil, err
	}
	matched := q.Filter(entities)
	result := domain.NewListResult(matched, domain.Paginate(len(matched), q.Page, q.Limit))
	result.Data = domain.CloneAll(result.Data)
	return result, nil
}
