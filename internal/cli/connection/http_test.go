package connection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/symetrix360/portal-go/internal/infra/buildinfo"
)

func envelopeHandler(t *testing.T, status int, code, message string, data any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"code":       code,
			"message":    message,
			"request_id": "req-test",
			"timestamp":  1,
			"data":       data,
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name   string
		server string
		want   string
	}{
		{"with http prefix", "http://localhost:5080", "http://localhost:5080"},
		{"with https prefix", "https://portal.example.com", "https://portal.example.com"},
		{"without prefix", "localhost:5080", "http://localhost:5080"},
		{"trailing slash", "http://localhost:5080/", "http://localhost:5080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewHTTPClient(tt.server).BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPClient_Methods(t *testing.T) {
	type call struct {
		method, path, contentType, userAgent, body string
	}
	var got call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = call{r.Method, r.URL.Path, r.Header.Get("Content-Type"), r.Header.Get("User-Agent"), string(b)}
		envelopeHandler(t, http.StatusOK, "OK", "success", nil)(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	ctx := context.Background()

	tests := []struct {
		name     string
		do       func() (*http.Response, error)
		method   string
		wantBody string
	}{
		{"get", func() (*http.Response, error) { return c.Get(ctx, "/api/v1/users") }, http.MethodGet, ""},
		{"post", func() (*http.Response, error) { return c.Post(ctx, "/api/v1/users", map[string]string{"a": "b"}) }, http.MethodPost, `{"a":"b"}`},
		{"patch", func() (*http.Response, error) { return c.Patch(ctx, "/api/v1/users", map[string]string{"c": "d"}) }, http.MethodPatch, `{"c":"d"}`},
		{"delete", func() (*http.Response, error) { return c.Delete(ctx, "/api/v1/users") }, http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			if err != nil {
				t.Fatalf("request error = %v", err)
			}
			if err := ParseResponse(resp, nil); err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if got.method != tt.method {
				t.Errorf("method = %q, want %q", got.method, tt.method)
			}
			if got.path != "/api/v1/users" {
				t.Errorf("path = %q", got.path)
			}
			if got.userAgent != buildinfo.UserAgent("portal-cli") {
				t.Errorf("User-Agent = %q", got.userAgent)
			}
			if got.body != tt.wantBody {
				t.Errorf("body = %q, want %q", got.body, tt.wantBody)
			}
			if (tt.wantBody != "") != (got.contentType == "application/json") {
				t.Errorf("Content-Type = %q for body %q", got.contentType, tt.wantBody)
			}
		})
	}
}

func TestParseResponse_Data(t *testing.T) {
	srv := httptest.NewServer(envelopeHandler(t, http.StatusOK, "OK", "success", map[string]any{"id": "7", "role": "client"}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).Get(context.Background(), "/")
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := ParseResponse(resp, &out); err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if out.ID != "7" || out.Role != "client" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestParseResponse_Error(t *testing.T) {
	srv := httptest.NewServer(envelopeHandler(t, http.StatusConflict, "PT-USER-4090", "email already registered", nil))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).Get(context.Background(), "/")
	if err != nil {
		t.Fatal(err)
	}
	err = ParseResponse(resp, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.RequestID != "req-test" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if err.Error() != "[PT-USER-4090] email already registered" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsCode(err, "PT-USER-4090") || IsCode(err, "PT-AUTH-4010") {
		t.Error("IsCode mismatch")
	}
}

func TestParseResponse_NonEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"plain error", http.StatusBadGateway, "upstream down", "request failed with status 502"},
		{"garbage success", http.StatusOK, "<html>", "parse response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			resp, err := NewHTTPClient(srv.URL).Get(context.Background(), "/")
			if err != nil {
				t.Fatal(err)
			}
			err = ParseResponse(resp, &struct{}{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url).Get(context.Background(), "/health")
	if err == nil || !strings.Contains(err.Error(), "GET /health") {
		t.Errorf("error = %v, want wrapped transport error", err)
	}
}

func TestParseResponse_Redirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?from=%2Ftickets%2F1", http.StatusFound)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).Get(context.Background(), "/tickets/1")
	if err != nil {
		t.Fatal(err)
	}
	err = ParseResponse(resp, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusFound {
		t.Fatalf("error = %v, want 302 APIError", err)
	}
	if !strings.Contains(apiErr.Message, "/login?from=") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
