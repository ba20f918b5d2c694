package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/catalog-facade/internal/api"
	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/dom/catalog-facade/internal/upstream"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs tokens issued by IssueToken.
const TestJWTSecret = "test-jwt-secret-key-for-testing-only"

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection.
// It skips under -short since it needs a container runtime.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_catalog"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&domain.SnapshotRecord{}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Exec("TRUNCATE TABLE snapshot_records").Error; err != nil {
		t.Logf("warning: failed to truncate snapshot_records: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		Environment:     "test",
		UpstreamTimeout: 2 * time.Second,
		SnapshotSource:  config.SnapshotEmbedded,
		JWTSecret:       TestJWTSecret,
		Entities:        config.DefaultPolicies(),
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Upstream *FakeUpstream
	Snapshot *snapshot.Snapshot
	Services *service.Services
	Config   *config.Config
}

type ServerOption func(*serverOptions)

type serverOptions struct {
	upstream http.Handler
	snapshot *snapshot.Snapshot
	mutate   []func(*config.Config)
}

// WithUpstream serves the remote source from h. Without it the remote base
// URL is left empty and every answer comes from the snapshot.
func WithUpstream(h http.Handler) ServerOption {
	return func(o *serverOptions) { o.upstream = h }
}

func WithSnapshot(s *snapshot.Snapshot) ServerOption {
	return func(o *serverOptions) { o.snapshot = s }
}

func WithConfig(fn func(*config.Config)) ServerOption {
	return func(o *serverOptions) { o.mutate = append(o.mutate, fn) }
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := TestConfig()
	ts := &TestServer{Config: cfg}

	if o.upstream != nil {
		ts.Upstream = NewFakeUpstream(t, o.upstream)
		cfg.RemoteBaseURL = ts.Upstream.URL()
	}
	for _, fn := range o.mutate {
		fn(cfg)
	}

	ts.Snapshot = o.snapshot
	if ts.Snapshot == nil {
		snap, err := snapshot.Bundled()
		if err != nil {
			t.Fatalf("failed to load bundled snapshot: %v", err)
		}
		ts.Snapshot = snap
	}

	logger := zap.NewNop()
	remote := upstream.NewClient(cfg.RemoteBaseURL,
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithCoalescing(cfg.CoalesceRemote),
	)
	ts.Services = service.NewServices(remote, ts.Snapshot, cfg, logger)
	router := api.NewRouter(ts.Services, cfg, logger)

	ts.Server = httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
