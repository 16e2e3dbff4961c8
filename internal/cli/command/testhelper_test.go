package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockServer records requests and answers with canned envelopes.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
	last     *http.Request
	lastBody map[string]any
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.last = r
		m.lastBody = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			json.Unmarshal(b, &m.lastBody)
		}
		if h, ok := m.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		errorResponse(w, http.StatusNotFound, "PT-SYS-4040", "not found")
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for "METHOD /path".
func (m *mockServer) handle(pattern string, h http.HandlerFunc) {
	m.handlers[pattern] = h
}

func (m *mockServer) reply(pattern string, status int, data any) {
	m.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, status, data)
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       "OK",
		"message":    "success",
		"request_id": "req-test",
		"timestamp":  time.Now().UnixMilli(),
		"data":       data,
	})
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       code,
		"message":    message,
		"request_id": "req-test",
		"timestamp":  time.Now().UnixMilli(),
	})
}

type runResult struct {
	out string
	err error
}

// runCLI runs the app against server with an isolated config file.
// Extra global flags go before the command in args.
func runCLI(t *testing.T, server, stdin string, args ...string) runResult {
	t.Helper()
	return runCLIWithConfig(t, filepath.Join(t.TempDir(), "cli.yaml"), server, stdin, args...)
}

func runCLIWithConfig(t *testing.T, cfgPath, server, stdin string, args ...string) runResult {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	full := []string{"portal-cli", "--config", cfgPath}
	if server != "" {
		full = append(full, "--server", server)
	}
	full = append(full, args...)

	err := app.RunContext(context.Background(), full)
	return runResult{out: out.String(), err: err}
}

func sampleIdentity(id, email, role string) map[string]any {
	return map[string]any{
		"id":         id,
		"email":      email,
		"name":       strings.ToUpper(role[:1]) + role[1:] + " User",
		"role":       role,
		"created_at": time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}
