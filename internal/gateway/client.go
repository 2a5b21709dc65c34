package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request when no option overrides it.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Client performs GET/POST calls against one base URL.
type Client struct {
	base *url.URL
	http *http.Client
	log  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New validates baseURL and returns a Client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base url not configured")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute http(s)", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c := &Client{base: u, http: &http.Client{Timeout: DefaultTimeout}, log: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured address.
func (c *Client) BaseURL() string { return c.base.String() }

// Body encodes a request body.
type Body interface {
	encode() (io.Reader, string, error)
}

// JSONBody sends Value as application/json.
type JSONBody struct {
	Value any
}

func (b JSONBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", fmt.Errorf("encode json body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// Request describes one call. Path is relative to the base URL and may
// carry a query string.
type Request struct {
	Method string
	Path   string
	Body   Body
}

func (c *Client) Get(ctx context.Context, path string) (Payload, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

func (c *Client) PostJSON(ctx context.Context, path string, v any) (Payload, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: JSONBody{Value: v}})
}

func (c *Client) PostMultipart(ctx context.Context, path string, body MultipartBody) (Payload, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Do performs the request. Every failure is a *Error; a non-2xx answer with
// a JSON body returns the parsed Payload together with a KindStatus error.
func (c *Client) Do(ctx context.Context, r Request) (Payload, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}
	p := Payload{Method: method, Path: r.Path, RequestID: uuid.NewString()}
	if method != http.MethodGet && method != http.MethodPost {
		return p, &Error{Kind: KindRequest, Method: method, Path: r.Path, Err: fmt.Errorf("unsupported method %s", method)}
	}

	target, err := c.resolve(r.Path)
	if err != nil {
		return p, &Error{Kind: KindRequest, Method: method, Path: r.Path, Err: err}
	}

	var (
		reader      io.Reader
		contentType string
	)
	if r.Body != nil {
		reader, contentType, err = r.Body.encode()
		if err != nil {
			return p, &Error{Kind: KindRequest, Method: method, Path: r.Path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return p, &Error{Kind: KindRequest, Method: method, Path: r.Path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", p.RequestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("warn: %s %s [%s] failed after %s: %v", method, r.Path, p.RequestID, time.Since(start).Round(time.Millisecond), err)
		return p, &Error{Kind: KindNetworkUnreachable, Method: method, Path: r.Path, Err: err}
	}
	defer resp.Body.Close()
	p.Status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.logf("warn: %s %s [%s] read body: %v", method, r.Path, p.RequestID, err)
		return p, &Error{Kind: KindNetworkUnreachable, Method: method, Path: r.Path, Status: p.Status, Err: err}
	}
	c.logf("%s %s [%s] %d in %s (%d bytes)", method, r.Path, p.RequestID, p.Status, time.Since(start).Round(time.Millisecond), len(raw))

	shape, body, err := parsePayload(raw)
	if err != nil {
		return p, &Error{Kind: KindInvalidResponse, Method: method, Path: r.Path, Status: p.Status, Raw: string(raw), Err: err}
	}
	p.Shape, p.Raw = shape, body
	if !p.OK() {
		return p, &Error{Kind: KindStatus, Method: method, Path: r.Path, Status: p.Status, Raw: string(raw)}
	}
	return p, nil
}

func (c *Client) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.Contains(path, "://") {
		return "", fmt.Errorf("path %q must be relative", path)
	}
	ref, err := url.Parse("/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse path: %w", err)
	}
	u := *c.base
	u.Path = c.base.Path + ref.Path
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func (c *Client) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
