package service_test

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/dom/catalog-facade/internal/testutil"
	"github.com/dom/catalog-facade/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fallbackSnapshot holds 25 test champions plus champion-x and Ezreal.
func fallbackSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	return testutil.NewSnapshot(t, map[domain.Kind][]map[string]any{
		domain.KindCharacter: append(testutil.Characters(25),
			testutil.NewCharacterBuilder().WithID("champion-x").WithName("Champion X").Build(),
			testutil.NewCharacterBuilder().WithID("ezreal").WithName("Ezreal").Build(),
		),
		domain.KindNews: {
			{"id": "patch-14-1", "title": "Patch 14.1 Notes"},
		},
		domain.KindComment: {
			{"id": "c1", "newsId": "patch-14-1", "content": "gg"},
		},
	})
}

func newCatalog(t *testing.T, remoteURL string, snap *snapshot.Snapshot) *service.CatalogService {
	t.Helper()
	remote := upstream.NewClient(remoteURL)
	return service.NewCatalogService(remote, snapshot.NewResolver(snap), config.DefaultPolicies(), zaptest.NewLogger(t))
}

func TestCatalog_NoRemote_ServesFallback(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	res, err := catalog.Execute(context.Background(), domain.ByID(domain.KindCharacter, "champion-x"))
	require.NoError(t, err)
	assert.Equal(t, service.SourceFallback, res.Source)
	assert.Equal(t, "champion-x", res.Entity.ID())
}

func TestCatalog_NoRemote_NotFound(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	_, err := catalog.GetByID(context.Background(), domain.KindCharacter, "nonexistent")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "character not found", err.Error())
}

func TestCatalog_RemoteFailures_FallBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
	}{
		{name: "status 500", handler: testutil.StatusHandler(http.StatusInternalServerError)},
		{name: "status 503", handler: testutil.StatusHandler(http.StatusServiceUnavailable)},
		{name: "data absent", handler: testutil.RawHandler(`{"items": []}`)},
		{name: "undecodable body", handler: testutil.RawHandler(`<html>bad gateway</html>`)},
		{name: "data is an object", handler: testutil.JSONHandler(testutil.Envelope(map[string]any{"id": "x"}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := testutil.NewFakeUpstream(t, tt.handler)
			snap := fallbackSnapshot(t)
			catalog := newCatalog(t, remote.URL(), snap)

			res, err := catalog.Execute(context.Background(), domain.List(domain.KindCharacter, 1, 20))
			require.NoError(t, err)

			assert.Equal(t, 1, remote.Calls())
			assert.Equal(t, service.SourceFallback, res.Source)
			assert.Equal(t, snap.Len(domain.KindCharacter), res.List.Total)
			assert.Len(t, res.List.Data, 20)
			assert.Equal(t, "test-champion-0", res.List.Data[0].ID())
			testutil.AssertListConsistent(t, res.List)
		})
	}
}

func TestCatalog_RemoteUnreachable_FallsBack(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	catalog := newCatalog(t, "http://"+addr, fallbackSnapshot(t))

	res, err := catalog.Execute(context.Background(), domain.ByID(domain.KindCharacter, "ezreal"))
	require.NoError(t, err)
	assert.Equal(t, service.SourceFallback, res.Source)
	assert.Equal(t, "ezreal", res.Entity.ID())
}

func TestCatalog_RemoteSuccess(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(testutil.Envelope(map[string]any{
		"id":   "ezreal",
		"name": "Ezreal (live)",
	})))
	catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

	res, err := catalog.Execute(context.Background(), domain.ByID(domain.KindCharacter, "ezreal"))
	require.NoError(t, err)
	assert.Equal(t, service.SourceRemote, res.Source)
	assert.Equal(t, "Ezreal (live)", res.Entity["name"])
	assert.Equal(t, "/champions/ezreal", remote.LastRequest().URL.Path)
}

func TestCatalog_ShapeEquivalence(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(testutil.Envelope([]any{
		map[string]any{"id": "ezreal", "name": "Ezreal", "unexpected": true},
	})))
	snap := fallbackSnapshot(t)

	fromRemote, err := newCatalog(t, remote.URL(), snap).GetByID(context.Background(), domain.KindCharacter, "ezreal")
	require.NoError(t, err)
	fromFallback, err := newCatalog(t, "", snap).GetByID(context.Background(), domain.KindCharacter, "ezreal")
	require.NoError(t, err)

	testutil.AssertSameShape(t, fromFallback, fromRemote)
}

func TestCatalog_RemoteNotFound_Policy(t *testing.T) {
	tests := []struct {
		name         string
		query        domain.Query
		wantFallback bool
	}{
		{name: "character falls back", query: domain.ByID(domain.KindCharacter, "ezreal"), wantFallback: true},
		{name: "character search falls back", query: domain.Search(domain.KindCharacter, "ez"), wantFallback: true},
		{name: "news is authoritative", query: domain.ByID(domain.KindNews, "patch-14-1")},
		{name: "character list is authoritative", query: domain.List(domain.KindCharacter, 1, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := testutil.NewFakeUpstream(t, testutil.StatusHandler(http.StatusNotFound))
			catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

			res, err := catalog.Execute(context.Background(), tt.query)
			if tt.wantFallback {
				require.NoError(t, err)
				assert.Equal(t, service.SourceFallback, res.Source)
				return
			}
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, 1, remote.Calls())
		})
	}
}

func TestCatalog_NormalizerNotFound_IsAuthoritativeForNews(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(testutil.Envelope([]any{})))
	catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

	_, err := catalog.GetByID(context.Background(), domain.KindNews, "patch-14-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Characters consult the snapshot instead.
	e, err := catalog.GetByID(context.Background(), domain.KindCharacter, "ezreal")
	require.NoError(t, err)
	assert.Equal(t, "ezreal", e.ID())
}

func TestCatalog_SearchDualShape(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	res, err := catalog.Execute(context.Background(), domain.Search(domain.KindCharacter, "ez"))
	require.NoError(t, err)
	single, ok := res.Body().(domain.Entity)
	require.True(t, ok, "a single match is returned as the entity")
	assert.Equal(t, "ezreal", single.ID())

	res, err = catalog.Execute(context.Background(), domain.Search(domain.KindCharacter, "test champion"))
	require.NoError(t, err)
	many, ok := res.Body().([]domain.Entity)
	require.True(t, ok, "several matches are returned as a sequence")
	assert.Len(t, many, 25)
}

func TestCatalog_RemoteSearchFiltersArray(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(testutil.Envelope([]any{
		map[string]any{"id": "ezreal", "name": "Ezreal"},
		map[string]any{"id": "ahri", "name": "Ahri"},
	})))
	catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

	got, err := catalog.Search(context.Background(), domain.KindCharacter, "EZ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ezreal", got[0].ID())
	assert.Equal(t, "EZ", remote.LastRequest().URL.Query().Get("search"))
}

func TestCatalog_RemoteList(t *testing.T) {
	t.Run("upstream pagination is echoed", func(t *testing.T) {
		remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(map[string]any{
			"data":  []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}},
			"total": 42,
			"page":  3,
			"limit": 2,
		}))
		catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

		res, err := catalog.Execute(context.Background(), domain.List(domain.KindCharacter, 3, 2))
		require.NoError(t, err)
		assert.Equal(t, service.SourceRemote, res.Source)
		assert.Equal(t, 42, res.List.Total)
		assert.Equal(t, 21, res.List.TotalPages)
		assert.Len(t, res.List.Data, 2)
		testutil.AssertListConsistent(t, res.List)

		q := remote.LastRequest().URL.Query()
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "2", q.Get("limit"))
	})

	t.Run("unpaginated upstream is paged locally", func(t *testing.T) {
		records := make([]any, 0, 30)
		for _, r := range testutil.Characters(30) {
			records = append(records, r)
		}
		remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(testutil.Envelope(records)))
		catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

		res, err := catalog.Execute(context.Background(), domain.List(domain.KindCharacter, 2, 20))
		require.NoError(t, err)
		assert.Equal(t, 30, res.List.Total)
		assert.Len(t, res.List.Data, 10)
		assert.Equal(t, "test-champion-20", res.List.Data[0].ID())
		testutil.AssertListConsistent(t, res.List)
	})

	t.Run("short page falls back", func(t *testing.T) {
		remote := testutil.NewFakeUpstream(t, testutil.JSONHandler(map[string]any{
			"data":  []any{map[string]any{"id": "a"}},
			"total": 42,
		}))
		catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

		res, err := catalog.Execute(context.Background(), domain.List(domain.KindCharacter, 1, 20))
		require.NoError(t, err)
		assert.Equal(t, service.SourceFallback, res.Source)
	})
}

func TestCatalog_ListDefaults(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	lr, err := catalog.List(context.Background(), domain.KindCharacter, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, lr.Page)
	assert.Equal(t, 20, lr.Limit)
	assert.Len(t, lr.Data, 20)
}

func TestCatalog_PageBeyondEnd(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	lr, err := catalog.List(context.Background(), domain.KindCharacter, 99, 20)
	require.NoError(t, err)
	assert.Empty(t, lr.Data)
	assert.Equal(t, 27, lr.Total)
	assert.Equal(t, 2, lr.TotalPages)
}

func TestCatalog_ValidationSkipsSources(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.StatusHandler(http.StatusOK))
	catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

	_, err := catalog.Execute(context.Background(), domain.Search(domain.KindCharacter, "   "))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, remote.Calls())
}

func TestCatalog_MissingSnapshotCollection(t *testing.T) {
	catalog := newCatalog(t, "", fallbackSnapshot(t))

	_, err := catalog.List(context.Background(), domain.KindComponent, 1, 20)
	assert.ErrorIs(t, err, domain.ErrSnapshotUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_CallerCancelled(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	catalog := newCatalog(t, remote.URL(), fallbackSnapshot(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := catalog.Execute(ctx, domain.ByID(domain.KindCharacter, "ezreal"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalog_ConcurrentQueriesAreIndependent(t *testing.T) {
	remote := testutil.NewFakeUpstream(t, testutil.StatusHandler(http.StatusInternalServerError))
	snap := fallbackSnapshot(t)
	catalog := newCatalog(t, remote.URL(), snap)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lr, err := catalog.List(context.Background(), domain.KindCharacter, 1, 20)
			if err == nil && len(lr.Data) > 0 {
				lr.Data[0]["name"] = "scribbled"
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, workers, remote.Calls())

	all, _ := snap.All(domain.KindCharacter)
	assert.Equal(t, "Test Champion 0", all[0]["name"])
}
