// Package connection provides the HTTP transport to the contacts API.
package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/contacts-cli/internal/infra/tlsroots"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
	"github.com/yndnr/contacts-cli/internal/telemetry/metric"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for outgoing requests.
// An empty token sends no Authorization header.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string {
	return f()
}

// HTTPClient provides HTTP communication with the contacts API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	userAgent string
	metrics   *metric.Registry
	logger    logger.Logger
	caFile    string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) {
		c.tokens = ts
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *HTTPClient) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithCAFile trusts the certificates in path in addition to the system roots.
func WithCAFile(path string) Option {
	return func(c *HTTPClient) {
		c.caFile = path
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithMetrics records request latency into reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *HTTPClient) {
		c.metrics = reg
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewHTTPClient creates a new HTTP client for the API at server.
func NewHTTPClient(server string, opts ...Option) (*HTTPClient, error) {
	// Ensure baseURL has http:// prefix
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &HTTPClient{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "contacts-cli/dev",
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.caFile != "" {
		tlsCfg, err := tlsroots.ClientTLSConfig(c.caFile)
		if err != nil {
			return nil, err
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		c.client.Transport = transport
	}

	return c, nil
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := ulid.Make().String()
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	log := logger.FromContext(ctx, c.logger).With("request_id", requestID)
	start := time.Now()

	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveAPIRequest(method, "error", elapsed)
		log.Debug("api request failed", "method", method, "path", path, "error", err)
		return nil, err
	}

	c.metrics.ObserveAPIRequest(method, strconv.Itoa(resp.StatusCode), elapsed)
	log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", elapsed)

	return resp, nil
}

// url joins the base URL and a path that may or may not start with "/".
func (c *HTTPClient) url(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response of the contacts API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("[%s] %s", e.Code, e.Message)
		}
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ParseResponse parses a JSON response body into the target struct.
// Statuses >= 400 become an *APIError.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}
