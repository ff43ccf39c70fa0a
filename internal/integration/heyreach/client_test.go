package heyreach

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/heyreach/internal/operation"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "default base URL",
			config: Config{Credentials: StaticKey("k")},
		},
		{
			name:   "custom base URL",
			config: Config{Credentials: StaticKey("k"), BaseURL: "https://example.test/api/public"},
		},
		{
			name:    "missing credentials",
			config:  Config{},
			wantErr: true,
		},
		{
			name:    "bad base URL",
			config:  Config{Credentials: StaticKey("k"), BaseURL: "ftp://example.test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestRequest_SendsKeyAndBody(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"id": 7}))

	got, err := client.Request(context.Background(), http.MethodPost, "/list/CreateEmptyList",
		map[string]any{"name": "Prospects"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": float64(7)}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/list/CreateEmptyList", calls[0].Path)
	assert.Equal(t, testAPIKey, calls[0].APIKey)
	assert.Equal(t, map[string]any{"name": "Prospects"}, calls[0].Body)
}

func TestRequest_GetSendsNoBody(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"id": 1}))

	_, err := client.Request(context.Background(), http.MethodGet, "/campaign/GetById",
		map[string]any{"ignored": true}, map[string]string{"campaignId": "1"})
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Raw)
	assert.Equal(t, "1", calls[0].Query.Get("campaignId"))
}

func TestRequest_EmptyBodyDecodesToObject(t *testing.T) {
	client, _ := newTestClient(t, func(recordedCall) (int, any) { return http.StatusOK, nil })

	got, err := client.Request(context.Background(), http.MethodPost, "/campaign/StopLeadInCampaign", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)
}

func TestRequest_MissingKey(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Credentials: StaticKey("  ")})
	require.NoError(t, err)

	_, err = client.Request(context.Background(), http.MethodGet, "/auth/CheckApiKey", nil, nil)
	opErr := requireOpError(t, err, operation.ErrorTypeAuthConfig)
	assert.Equal(t, "No credentials got returned!", opErr.Message)
	assert.Empty(t, api.Calls())
}

func TestRequest_ErrorClassification(t *testing.T) {
	tests := []struct {
		name             string
		status           int
		body             any
		wantType         operation.ErrorType
		wantMessage      string
		wantDetail       string
		wantInconsistent bool
	}{
		{
			name:        "unauthorized",
			status:      401,
			body:        map[string]any{"message": "Invalid API key"},
			wantType:    operation.ErrorTypeAuth,
			wantMessage: "Authentication failed",
			wantDetail:  "Invalid API key",
		},
		{
			name:        "forbidden",
			status:      403,
			wantType:    operation.ErrorTypeForbidden,
			wantMessage: "Access forbidden",
		},
		{
			name:        "not found",
			status:      404,
			body:        "nope",
			wantType:    operation.ErrorTypeNotFound,
			wantMessage: "Resource not found",
			wantDetail:  "nope",
		},
		{
			name:        "rate limited",
			status:      429,
			body:        map[string]any{"error": "slow down"},
			wantType:    operation.ErrorTypeRateLimit,
			wantMessage: "Rate limit exceeded",
			wantDetail:  "slow down",
		},
		{
			name:        "bad request",
			status:      400,
			body:        map[string]any{"message": "campaignId must be positive"},
			wantType:    operation.ErrorTypeBadRequest,
			wantMessage: "Bad request",
			wantDetail:  "campaignId must be positive",
		},
		{
			name:             "pause inconsistency surfaced untranslated",
			status:           400,
			body:             map[string]any{"message": "You cannot pause an inactive campaign"},
			wantType:         operation.ErrorTypeBadRequest,
			wantMessage:      "You cannot pause an inactive campaign",
			wantInconsistent: true,
		},
		{
			name:             "resume inconsistency as bare string",
			status:           400,
			body:             `"Campaign is not paused, finished or failed"`,
			wantType:         operation.ErrorTypeBadRequest,
			wantMessage:      "Campaign is not paused, finished or failed",
			wantInconsistent: true,
		},
		{
			name:        "server error",
			status:      500,
			wantType:    operation.ErrorTypeServer,
			wantMessage: "Internal server error",
		},
		{
			name:        "other status",
			status:      503,
			body:        "<html>maintenance</html>",
			wantType:    operation.ErrorTypeUpstream,
			wantMessage: "HTTP 503 Error",
			wantDetail:  "<html>maintenance</html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(recordedCall) (int, any) { return tt.status, tt.body })

			_, err := client.Request(context.Background(), http.MethodPost, "/campaign/Pause", nil, nil)
			opErr := requireOpError(t, err, tt.wantType)
			assert.Equal(t, tt.wantMessage, opErr.Message)
			assert.Equal(t, tt.status, opErr.StatusCode)
			assert.Equal(t, tt.wantInconsistent, opErr.Inconsistent)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, opErr.Detail)
				assert.Contains(t, opErr.Error(), tt.wantDetail)
			}
		})
	}
}

func TestRequest_AuthErrorDescription(t *testing.T) {
	client, _ := newTestClient(t, func(recordedCall) (int, any) { return 401, nil })

	_, err := client.Request(context.Background(), http.MethodGet, "/auth/CheckApiKey", nil, nil)
	opErr := requireOpError(t, err, operation.ErrorTypeAuth)
	assert.Equal(t, "Please check your HeyReach API key in the credentials.", opErr.Description)
}

func TestRequest_NetworkFailureIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: baseURL, Credentials: StaticKey("k"), Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Request(context.Background(), http.MethodGet, "/auth/CheckApiKey", nil, nil)
	opErr := requireOpError(t, err, operation.ErrorTypeUnknown)
	assert.Zero(t, opErr.StatusCode)
	assert.NotNil(t, opErr.Cause)
}

func TestRequest_InvalidJSONResponse(t *testing.T) {
	client, _ := newTestClient(t, ok("{not json"))

	_, err := client.Request(context.Background(), http.MethodPost, "/list/GetAll", nil, nil)
	requireOpError(t, err, operation.ErrorTypeUpstream)
}

func TestRequest_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := operation.NewMetrics(reg)
	api := &fakeAPI{respond: ok(map[string]any{})}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Credentials: StaticKey("k"), Metrics: metrics})
	require.NoError(t, err)

	_, err = client.Request(context.Background(), http.MethodPost, "/list/GetAll", nil, nil)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "heyreach_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckAPIKey(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{}))

	require.NoError(t, client.CheckAPIKey(context.Background()))
	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/auth/CheckApiKey", calls[0].Path)
}
