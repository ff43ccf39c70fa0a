// Package transport provides the protocol-level HTTP layer under the
// HeyReach request client.
//
// The transport separates protocol concerns (URL building, authentication
// headers, timeouts, client-side pacing) from operation concerns (request
// bodies, response shaping, error wording). It performs exactly one HTTP
// exchange per Execute call and never retries.
package transport

import (
	"context"
)

// Transport executes requests with protocol-specific handling.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	// Returns *TransportError on failure; for HTTP status failures the
	// response is returned alongside the error.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier.
	Name() string

	// SetRateLimiter configures client-side pacing for this transport.
	SetRateLimiter(limiter RateLimiter)
}

// Request represents a transport-agnostic request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH)
	// Required, must be non-empty
	Method string

	// URL is the full request URL, or a path relative to the transport's
	// base URL
	URL string

	// Query holds query string parameters appended to URL
	Query map[string]string

	// Headers are request headers (case-insensitive)
	Headers map[string]string

	// Body is the request body
	// Optional, may be nil
	Body []byte
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the response body
	Body []byte

	// Metadata contains transport-specific data (e.g. request id)
	Metadata map[string]interface{}
}

// Standard metadata keys used across transports
const (
	// MetadataRequestID is the service request ID
	MetadataRequestID = "request_id"

	// MetadataRetryAfter is the Retry-After header of a throttled response
	MetadataRetryAfter = "retry_after"
)

// RateLimiter provides rate limiting for transport requests.
// Implementations should block until a request is allowed.
type RateLimiter interface {
	// Wait blocks until a request is allowed under the rate limit.
	// Returns an error if the context is cancelled before the request can proceed.
	Wait(ctx context.Context) error
}
