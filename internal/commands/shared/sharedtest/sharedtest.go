// Package sharedtest provides a fake HeyReach upstream and an isolated
// environment for command tests.
package sharedtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/tombee/heyreach/internal/commands/shared"
)

// APIKey is the key Setup exposes through HEYREACH_API_KEY.
const APIKey = "test-key"

// Call is one request received by the fake upstream.
type Call struct {
	Method string
	Path   string
	APIKey string
	Body   map[string]any
}

// Responder answers a call with a status and a JSON-encodable body.
type Responder func(Call) (int, any)

// Upstream records calls and answers them with a Responder.
type Upstream struct {
	URL string

	mu      sync.Mutex
	calls   []Call
	respond Responder
}

// Calls returns a copy of the recorded calls.
func (u *Upstream) Calls() []Call {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Call(nil), u.calls...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := Call{Method: r.Method, Path: r.URL.Path, APIKey: r.Header.Get("X-API-KEY")}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	u.mu.Lock()
	u.calls = append(u.calls, call)
	u.mu.Unlock()

	status, body := http.StatusOK, any(map[string]any{})
	if u.respond != nil {
		status, body = u.respond(call)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Setup starts a fake upstream and points the command environment at it:
// an empty config dir, an in-memory keychain, the API key in the
// environment, no pacing or prompting, and reset global flags.
func Setup(t *testing.T, respond Responder) *Upstream {
	t.Helper()

	u := &Upstream{respond: respond}
	srv := httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(srv.Close)
	u.URL = srv.URL

	keyring.MockInit()
	shared.ResetFlagsForTest()
	t.Cleanup(shared.ResetFlagsForTest)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HEYREACH_BASE_URL", srv.URL)
	t.Setenv("HEYREACH_API_KEY", APIKey)
	t.Setenv("HEYREACH_RATE_LIMIT", "0")
	t.Setenv("HEYREACH_NON_INTERACTIVE", "true")
	for _, key := range []string{
		"HEYREACH_TIMEOUT", "HEYREACH_MAX_PAGES", "HEYREACH_TRACING_ENDPOINT",
		"HEYREACH_METRICS_FILE", "HEYREACH_DEBUG", "HEYREACH_LOG_LEVEL",
		"HEYREACH_SECRET_API_KEY", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE",
	} {
		t.Setenv(key, "")
	}
	return u
}

// Items answers every call with an items envelope.
func Items(items ...map[string]any) Responder {
	return func(Call) (int, any) {
		list := make([]any, len(items))
		for i := range items {
			list[i] = items[i]
		}
		return http.StatusOK, map[string]any{"items": list, "totalCount": len(items)}
	}
}
