package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/safe"
)

// DefaultBaseURL is the production endpoint of the opportunity risks API
const DefaultBaseURL = "https://opportunity-risks-api-54042023114.us-central1.run.app/api/v1"

const maxResponseSize = 32 << 20

// Client is a JSON client bound to one API base URL. It does not retry and
// sets no timeout; use the context to bound a call.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	header     http.Header
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(x *Client) {
		x.httpClient = c
	}
}

// WithHeader adds a default header sent with every request
func WithHeader(key, value string) Option {
	return func(x *Client) {
		x.header.Set(key, value)
	}
}

// New creates a client for baseURL (e.g. https://example.com/api/v1).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidBaseURL, "failed to parse base URL", goerr.V("base_url", baseURL), goerr.V("error", err.Error()))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, goerr.Wrap(ErrInvalidBaseURL, "base URL must be an absolute http(s) URL", goerr.V("base_url", baseURL))
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		header:     http.Header{},
	}
	c.header.Set("Content-Type", "application/json")
	c.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*model.Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*model.Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*model.Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*model.Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// endpoint joins the base URL and path. path must already be escaped.
func (c *Client) endpoint(path string, query url.Values) (string, error) {
	escaped := c.baseURL.EscapedPath() + "/" + strings.TrimPrefix(path, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", goerr.Wrap(err, "invalid request path", goerr.V(PathKey, path))
	}

	u := *c.baseURL
	u.Path = unescaped
	u.RawPath = escaped
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*model.Envelope, error) {
	requestID := uuid.NewString()
	logger := logging.From(ctx).With(
		slog.String(MethodKey, method),
		slog.String(PathKey, path),
		slog.String(RequestIDKey, requestID),
	)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode request body",
				goerr.V(MethodKey, method), goerr.V(PathKey, path))
		}
		reader = bytes.NewReader(raw)
	}

	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request",
			goerr.V(MethodKey, method), goerr.V(PathKey, path))
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("API Error", slog.String("error", err.Error()))
		return nil, goerr.Wrap(err, "failed to send request",
			goerr.V(MethodKey, method), goerr.V(PathKey, path), goerr.V(RequestIDKey, requestID))
	}
	respBody, err := safe.ReadAll(ctx, resp.Body, maxResponseSize)
	if err != nil {
		logger.Error("API Error", slog.String("error", err.Error()))
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.V(MethodKey, method), goerr.V(PathKey, path), goerr.V(RequestIDKey, requestID))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			RequestID:  requestID,
			Body:       respBody,
		}
		if len(respBody) > 0 {
			logger.Error("API Error", slog.Int(StatusKey, resp.StatusCode), slog.String("payload", string(respBody)))
		} else {
			logger.Error("API Error", slog.Int(StatusKey, resp.StatusCode), slog.String("error", apiErr.TransportMessage()))
		}
		return nil, goerr.Wrap(apiErr, "API returned error status",
			goerr.V(MethodKey, method), goerr.V(PathKey, path),
			goerr.V(StatusKey, resp.StatusCode), goerr.V(RequestIDKey, requestID))
	}

	logger.Debug("API request completed", slog.Int(StatusKey, resp.StatusCode), slog.Int("bytes", len(respBody)))
	return model.NewEnvelope(resp.StatusCode, respBody), nil
}
