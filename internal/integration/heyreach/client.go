package heyreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/operation"
	"github.com/tombee/heyreach/internal/operation/transport"
	"github.com/tombee/heyreach/internal/tracing"
)

const (
	// DefaultBaseURL is the public API root every endpoint is appended to.
	DefaultBaseURL = "https://api.heyreach.io/api/public"

	// DefaultMaxPages caps FetchAll.
	DefaultMaxPages = 1000

	// PageSize is the largest page the upstream serves.
	PageSize = 100

	tracerName = "github.com/tombee/heyreach/internal/integration/heyreach"
)

// CredentialSource resolves the API key for a request.
type CredentialSource interface {
	// APIKey returns the key, or "" when none is configured.
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a CredentialSource holding a fixed key.
type StaticKey string

// APIKey returns the key.
func (k StaticKey) APIKey(context.Context) (string, error) {
	return string(k), nil
}

// Config configures a Client.
type Config struct {
	// BaseURL overrides DefaultBaseURL
	BaseURL string

	// Timeout bounds each request (default 60s)
	Timeout time.Duration

	// RequestsPerMinute paces outgoing requests; zero disables pacing
	RequestsPerMinute int

	// MaxPages caps FetchAll (default DefaultMaxPages)
	MaxPages int

	// Credentials resolves the API key (required)
	Credentials CredentialSource

	// Logger receives request logs; silent when nil
	Logger *slog.Logger

	// Metrics records request, page and reconciliation counters; optional
	Metrics *operation.Metrics

	// Tracer overrides the global otel tracer
	Tracer trace.Tracer

	// HTTPClient overrides the transport's HTTP client
	HTTPClient *http.Client

	// Now overrides the clock used for relative date ranges
	Now func() time.Time
}

// Client performs single HeyReach API calls and classifies failures. It
// never retries.
type Client struct {
	transport   transport.Transport
	credentials CredentialSource
	logger      *slog.Logger
	metrics     *operation.Metrics
	tracer      trace.Tracer
	maxPages    int
	now         func() time.Time
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credentials source is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	t, err := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		BaseURL: baseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{
			"Accept": "application/json",
		},
		Client: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("configure transport: %w", err)
	}
	if limiter := transport.NewRateLimiter(cfg.RequestsPerMinute); limiter != nil {
		t.SetRateLimiter(limiter)
	}

	c := &Client{
		transport:   t,
		credentials: cfg.Credentials,
		logger:      log.WithComponent(log.OrDiscard(cfg.Logger), "heyreach"),
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
		maxPages:    cfg.MaxPages,
		now:         cfg.Now,
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxPages
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Request performs one call to endpoint and returns the decoded JSON body.
// body is JSON encoded for every method except GET; query is appended to the
// URL. Failures are returned as *operation.Error.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, query map[string]string) (any, error) {
	key, err := c.credentials.APIKey(ctx)
	if err != nil {
		return nil, &operation.Error{
			Type:    operation.ErrorTypeAuthConfig,
			Message: "No credentials got returned!",
			Cause:   err,
		}
	}
	if strings.TrimSpace(key) == "" {
		return nil, &operation.Error{
			Type:        operation.ErrorTypeAuthConfig,
			Message:     "No credentials got returned!",
			SuggestText: "Set HEYREACH_API_KEY or run `heyreach auth set`",
		}
	}

	ctx, span := c.tracer.Start(ctx, "heyreach.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("heyreach.endpoint", endpoint),
		),
		trace.WithAttributes(tracing.Attributes(ctx)...),
	)
	defer span.End()

	req := &transport.Request{
		Method:  method,
		URL:     endpoint,
		Query:   query,
		Headers: map[string]string{"X-API-KEY": key},
	}
	if method != http.MethodGet {
		if body == nil {
			body = map[string]any{}
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, operation.NewValidationError("request body for %s is not valid JSON: %v", endpoint, err)
		}
		req.Body = payload
	}

	start := time.Now()
	resp, err := c.transport.Execute(ctx, req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.RecordRequest(endpoint, method, status, elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	logger := c.logger.With(
		"method", method,
		log.EndpointKey, endpoint,
		log.StatusKey, status,
		log.DurationKey, elapsed.Milliseconds(),
	)

	if err != nil {
		opErr := classifyError(err)
		span.RecordError(opErr)
		span.SetStatus(codes.Error, opErr.Message)
		logger.Debug("heyreach request failed", "error_type", opErr.Type, "error", opErr.Error())
		return nil, opErr
	}
	logger.Debug("heyreach request completed", "bytes", len(resp.Body))

	return decodeBody(resp)
}

// decodeBody decodes a successful response. An empty body decodes to an
// empty object.
func decodeBody(resp *transport.Response) (any, error) {
	raw := bytes.TrimSpace(resp.Body)
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &operation.Error{
			Type:       operation.ErrorTypeUpstream,
			Message:    "HeyReach returned a response that is not valid JSON",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return out, nil
}

// CheckAPIKey verifies the configured key against the upstream.
func (c *Client) CheckAPIKey(ctx context.Context) error {
	_, err := c.Request(ctx, http.MethodGet, "/auth/CheckApiKey", nil, nil)
	return err
}
