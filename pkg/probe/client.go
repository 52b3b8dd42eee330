package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Client issues keepalive probes over HTTP. All probe shapes are read-only
// or side-effect free on the remote schema; the rpc call is the only one
// expected to touch a user-defined function.
type Client struct {
	client  *http.Client
	timeout time.Duration
	closed  int32 // atomic flag for Close()
}

// NewClient wraps an HTTP client. A nil httpClient gets a plain client with
// the given timeout.
func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{client: httpClient, timeout: timeout}
}

// NewDefaultClient builds a client with a tuned transport suitable for
// probing many endpoints from a long-lived process.
func NewDefaultClient(timeout time.Duration) *Client {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(defaultClient, timeout)
}

// Do executes one probe request. A nil return means the endpoint answered
// with a 2xx status within the timeout.
func (c *Client) Do(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	logger.Debug("probe ok", slog.String("kind", string(req.Kind)), slog.Int("status", resp.StatusCode))
	return nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	base, err := url.ParseRequestURI(req.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint url: %w", err)
	}

	var (
		method string
		ref    *url.URL
		body   io.Reader
	)
	switch req.Kind {
	case KindRPC:
		method = http.MethodPost
		ref = &url.URL{Path: "/rest/v1/rpc/keepalive"}
		body = strings.NewReader(`{}`)
	case KindTable:
		if req.Table == "" {
			return nil, fmt.Errorf("table probe requires a table name")
		}
		method = http.MethodGet
		ref = &url.URL{Path: "/rest/v1/" + req.Table, RawQuery: "select=id&limit=1"}
	case KindHealth:
		method = http.MethodGet
		ref = &url.URL{Path: "/auth/v1/health"}
	default:
		return nil, fmt.Errorf("unknown probe kind %q", req.Kind)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("apikey", req.Credential)
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

// Close releases any resources held by the client. It closes idle
// connections on the underlying HTTP transport when supported and is
// idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// package-level logger for pkg/probe; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/probe. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
