// Package gateway is the boundary between the in-process managers and
// the remote backend. It owns base URLs, timeouts and auth header
// injection; every method maps one wire endpoint, decodes against a
// declared schema, and fails closed on anything else.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/errs"
	"github.com/fgloris/smart-meeting-go/internal/observability/metrics"
)

const DefaultTimeout = 30 * time.Second

// Client talks to the main API host. Safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger

	mu         sync.RWMutex
	credential string
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		log: log,
	}
}

// SetCredential installs the opaque credential sent as the Authorization
// header on subsequent calls. An empty value clears it (logout).
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.credential = token
	c.mu.Unlock()
}

func (c *Client) credentialHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// doJSON performs one call. body is marshaled when non-nil; out is
// decoded into when non-nil. Unknown response fields are rejected.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if out == nil {
		// ack-only endpoint; drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	return decodeStrict(op, resp.Body, out)
}

func decodeStrict(op string, r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(op, "decode_error").Inc()
		return &errs.DecodeError{Op: op, Err: err}
	}
	return nil
}

// do sends the request with auth and request-id headers, maps transport
// failures onto the error taxonomy and records metrics.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	if cred := c.credentialHeader(); cred != "" {
		req.Header.Set("Authorization", cred)
	}
	rid := uuid.NewString()
	req.Header.Set("X-Request-Id", rid)

	start := time.Now()
	resp, err := c.hc.Do(req)
	dur := time.Since(start)
	metrics.GatewayRequestDurationSeconds.WithLabelValues(op).Observe(dur.Seconds())
	if err != nil {
		kind, mapped := classifyTransport(err)
		metrics.GatewayRequestsTotal.WithLabelValues(op, kind).Inc()
		c.log.Warn("gateway call failed",
			zap.String("operation", op),
			zap.String("request_id", rid),
			zap.Duration("duration", dur),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}
	metrics.GatewayRequestsTotal.WithLabelValues(op, fmt.Sprintf("%dxx", resp.StatusCode/100)).Inc()
	c.log.Debug("gateway call",
		zap.String("operation", op),
		zap.String("request_id", rid),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", dur))
	return resp, nil
}

func classifyTransport(err error) (string, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", fmt.Errorf("%w: %v", errs.ErrTimeout, err)
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return "timeout", fmt.Errorf("%w: %v", errs.ErrTimeout, err)
	}
	return "network", fmt.Errorf("%w: %v", errs.ErrNetwork, err)
}

// checkStatus turns a non-2xx response into a StatusError carrying a
// bounded slice of the body.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("%s: %w", op, &errs.StatusError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(data)),
	})
}
