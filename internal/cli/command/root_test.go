package command

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/symetrix360/portal-go/internal/cli/output"
)

func TestApp_Structure(t *testing.T) {
	app := App()
	if app.Name != "portal-cli" {
		t.Errorf("Name = %q", app.Name)
	}

	flags := map[string]bool{}
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"server", "output", "wide", "config"} {
		if !flags[name] {
			t.Errorf("missing global flag --%s", name)
		}
	}

	cmds := map[string]bool{}
	for _, c := range app.Commands {
		cmds[c.Name] = true
	}
	for _, name := range []string{"login", "logout", "whoami", "register", "user", "ticket", "health", "config"} {
		if !cmds[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestParseGlobalFlags_ConfigFallback(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /health", 200, map[string]string{"status": "healthy"})

	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")
	content := "default_server: " + srv.URL + "\ndefault_output: json\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	// No --server flag: the config file supplies both server and format.
	res := runCLIWithConfig(t, cfgPath, "", "", "health")
	if res.err != nil {
		t.Fatalf("health error = %v", res.err)
	}
	if !strings.Contains(res.out, `"status": "healthy"`) {
		t.Errorf("expected json output from config default, got:\n%s", res.out)
	}

	// Explicit flag wins over the file.
	res = runCLIWithConfig(t, cfgPath, srv.URL, "", "--output", "table", "health")
	if res.err != nil {
		t.Fatalf("health error = %v", res.err)
	}
	if !strings.Contains(res.out, srv.URL+": healthy") {
		t.Errorf("expected table output, got:\n%s", res.out)
	}
}

func TestParseGlobalFlags_EnvServer(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /health", 200, map[string]string{"status": "healthy"})
	t.Setenv("PORTAL_SERVER", srv.URL)

	res := runCLI(t, "", "", "health")
	if res.err != nil {
		t.Fatalf("health error = %v", res.err)
	}
	if !strings.Contains(res.out, "healthy") {
		t.Errorf("out = %q", res.out)
	}
}

func TestApp_BadOutputFormat(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /health", 200, map[string]string{"status": "healthy"})

	res := runCLI(t, srv.URL, "", "--output", "xml", "health")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown output format") {
		t.Errorf("error = %v", res.err)
	}
}

func TestApp_BadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(cfgPath, []byte("nonsense: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	res := runCLIWithConfig(t, cfgPath, "http://127.0.0.1:1", "", "health")
	if res.err == nil || !strings.Contains(res.err.Error(), "parse cli config") {
		t.Errorf("error = %v", res.err)
	}
}

func TestHealth_Ready(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusServiceUnavailable, "PT-SYS-5030", "session restore in progress")
	})

	res := runCLI(t, srv.URL, "", "health", "--ready")
	if res.err == nil || !strings.Contains(res.err.Error(), "PT-SYS-5030") {
		t.Errorf("error = %v", res.err)
	}
}

func TestRender_Formats(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /health", 200, map[string]string{"status": "healthy"})

	tests := []struct {
		format output.Format
		want   string
	}{
		{output.FormatTable, ": healthy"},
		{output.FormatJSON, `"status": "healthy"`},
		{output.FormatYAML, "status: healthy"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			res := runCLI(t, srv.URL, "", "-o", string(tt.format), "health")
			if res.err != nil {
				t.Fatal(res.err)
			}
			if !strings.Contains(res.out, tt.want) {
				t.Errorf("out = %q, want containing %q", res.out, tt.want)
			}
		})
	}
}

func TestApp_CAFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	}))
	defer srv.Close()

	if res := runCLI(t, srv.URL, "", "health"); res.err == nil {
		t.Fatal("untrusted certificate should fail")
	}

	ca := filepath.Join(t.TempDir(), "ca.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(ca, certPEM, 0644); err != nil {
		t.Fatal(err)
	}
	if res := runCLI(t, srv.URL, "", "--ca-file", ca, "health"); res.err != nil {
		t.Errorf("health with --ca-file error = %v", res.err)
	}
	if res := runCLI(t, srv.URL, "", "--insecure", "health"); res.err != nil {
		t.Errorf("health with --insecure error = %v", res.err)
	}
	if res := runCLI(t, srv.URL, "", "--ca-file", filepath.Join(t.TempDir(), "none.pem"), "health"); res.err == nil {
		t.Error("missing ca file should fail")
	}
}
