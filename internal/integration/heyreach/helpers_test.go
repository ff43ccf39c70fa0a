package heyreach

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tombee/heyreach/internal/operation"
)

const testAPIKey = "test-key"

// fixedNow is the clock used by tests that compute relative dates.
var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type recordedCall struct {
	Method string
	Path   string
	Query  url.Values
	APIKey string
	Body   map[string]any
	Raw    string
}

// fakeAPI is an httptest upstream that records every call and answers with
// the configured responder.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []recordedCall
	respond func(call recordedCall) (int, any)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := recordedCall{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, "/api/public"),
		Query:  r.URL.Query(),
		APIKey: r.Header.Get("X-API-KEY"),
		Raw:    string(raw),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	respond := f.respond
	f.mu.Unlock()

	status, body := http.StatusOK, any(map[string]any{})
	if respond != nil {
		status, body = respond(call)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch b := body.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, b)
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}

func (f *fakeAPI) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

// newTestClient starts a fake upstream and returns a client pointed at it.
func newTestClient(t *testing.T, respond func(call recordedCall) (int, any)) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{respond: respond}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:     srv.URL + "/api/public",
		Timeout:     5 * time.Second,
		Credentials: StaticKey(testAPIKey),
		Metrics:     operation.NewMetrics(prometheus.NewRegistry()),
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return client, api
}

// ok answers every call with the same body.
func ok(body any) func(recordedCall) (int, any) {
	return func(recordedCall) (int, any) { return http.StatusOK, body }
}

// page returns n numbered objects starting at start.
func page(start, n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = map[string]any{"id": float64(start + i + 1)}
	}
	return items
}

func asList(t *testing.T, v any) []any {
	t.Helper()
	list, ok := v.([]any)
	require.True(t, ok, "expected []any, got %T", v)
	return list
}

func requireOpError(t *testing.T, err error, typ operation.ErrorType) *operation.Error {
	t.Helper()
	require.Error(t, err)
	var opErr *operation.Error
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, typ, opErr.Type, "error: %v", err)
	return opErr
}
