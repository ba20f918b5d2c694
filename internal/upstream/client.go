// Package upstream talks to the remote authoritative catalog service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dom/catalog-facade/internal/domain"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 10 << 20
)

// Request describes one outbound call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client performs single-attempt calls against the remote source and
// classifies every outcome as success, *domain.TransportError or
// *domain.ProtocolError. It never retries.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	group      *singleflight.Group
	logger     *zap.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCoalescing makes identical concurrent GETs share one outbound call.
func WithCoalescing(enabled bool) Option {
	return func(c *Client) {
		if enabled {
			c.group = &singleflight.Group{}
		} else {
			c.group = nil
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for baseURL. An empty baseURL yields a disabled
// client: Enabled reports false and Do fails without touching the network.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Do performs req and returns the response body for a 2xx status.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if !c.Enabled() {
		return nil, &domain.TransportError{Err: fmt.Errorf("remote base URL not configured")}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.url(req)

	if c.group == nil || method != http.MethodGet {
		return c.do(ctx, method, target, req.Body)
	}

	// The shared call outlives any single caller; it is still bounded by
	// the client timeout. Each caller only waits on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(target, func() (any, error) {
		return c.do(shared, method, target, nil)
	})
	select {
	case <-ctx.Done():
		return nil, &domain.TransportError{Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("[upstream.Do] coalesced request", zap.String("url", target))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) url(req Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("[upstream.Do] no response",
			zap.String("method", method),
			zap.String("url", target),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("[upstream.Do] response",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ProtocolError{StatusCode: resp.StatusCode}
	}
	return payload, nil
}
