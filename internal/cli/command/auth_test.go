package command

import (
	"net/http"
	"strings"
	"testing"
)

func TestLogin(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/v1/auth/login", http.StatusOK, map[string]any{
		"user":     sampleIdentity("1", "admin@example.com", "admin"),
		"redirect": "/dashboard/admin",
	})

	res := runCLI(t, srv.URL, "", "login", "--email", "admin@example.com", "--password", "demo123")
	if res.err != nil {
		t.Fatalf("login error = %v", res.err)
	}
	if srv.lastBody["email"] != "admin@example.com" || srv.lastBody["password"] != "demo123" {
		t.Errorf("request body = %v", srv.lastBody)
	}
	for _, want := range []string{"Signed in as Admin User <admin@example.com> (admin)", "Dashboard: /dashboard/admin"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("out missing %q:\n%s", want, res.out)
		}
	}
}

func TestLogin_PasswordFromEnv(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/v1/auth/login", http.StatusOK, map[string]any{"redirect": "/dashboard/client"})
	t.Setenv("PORTAL_PASSWORD", "from-env")

	if res := runCLI(t, srv.URL, "", "login", "-e", "client@example.com"); res.err != nil {
		t.Fatalf("login error = %v", res.err)
	}
	if srv.lastBody["password"] != "from-env" {
		t.Errorf("password = %v", srv.lastBody["password"])
	}
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		status  int
		code    string
		wantErr string
	}{
		{"unknown email", []string{"login", "-e", "nobody@example.com"}, http.StatusUnauthorized, "PT-AUTH-4010", "PT-AUTH-4010"},
		{"rate limited", []string{"login", "-e", "a@example.com"}, http.StatusTooManyRequests, "PT-SYS-4290", "PT-SYS-4290"},
		{"missing email", []string{"login"}, 0, "", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMockServer(t)
			srv.handle("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
				errorResponse(w, tt.status, tt.code, "rejected")
			})
			res := runCLI(t, srv.URL, "", tt.args...)
			if res.err == nil || !strings.Contains(res.err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", res.err, tt.wantErr)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/v1/auth/logout", http.StatusOK, map[string]string{"redirect": "/login"})

	res := runCLI(t, srv.URL, "", "logout")
	if res.err != nil {
		t.Fatalf("logout error = %v", res.err)
	}
	if strings.TrimSpace(res.out) != "Signed out" {
		t.Errorf("out = %q", res.out)
	}

	res = runCLI(t, srv.URL, "", "-o", "json", "logout")
	if !strings.Contains(res.out, `"redirect": "/login"`) {
		t.Errorf("json out = %q", res.out)
	}
}

func TestWhoami(t *testing.T) {
	tests := []struct {
		name  string
		state map[string]any
		want  []string
	}{
		{
			name: "signed in",
			state: map[string]any{
				"authenticated": true,
				"user":          sampleIdentity("2", "support@example.com", "support"),
				"dashboard":     "/dashboard/support",
			},
			want: []string{"support@example.com", "Support User", "/dashboard/support"},
		},
		{
			name:  "signed out",
			state: map[string]any{"authenticated": false},
			want:  []string{"Not signed in"},
		},
		{
			name:  "initializing",
			state: map[string]any{"initializing": true},
			want:  []string{"still initializing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMockServer(t)
			srv.reply("GET /api/v1/auth/state", http.StatusOK, tt.state)

			res := runCLI(t, srv.URL, "", "whoami")
			if res.err != nil {
				t.Fatalf("whoami error = %v", res.err)
			}
			for _, w := range tt.want {
				if !strings.Contains(res.out, w) {
					t.Errorf("out missing %q:\n%s", w, res.out)
				}
			}
		})
	}
}

func TestRegister(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/v1/auth/register", http.StatusCreated, map[string]any{
		"user":     sampleIdentity("7", "new@example.com", "client"),
		"redirect": "/dashboard/client",
	})

	res := runCLI(t, srv.URL, "", "register",
		"--email", "new@example.com", "--password", "pw", "--name", "New Person", "--department", "Ops")
	if res.err != nil {
		t.Fatalf("register error = %v", res.err)
	}
	if !strings.Contains(res.out, "Registered and signed in as") {
		t.Errorf("out = %q", res.out)
	}
	if _, ok := srv.lastBody["role"]; ok {
		t.Error("role should be omitted when not given")
	}
	if srv.lastBody["department"] != "Ops" || srv.lastBody["name"] != "New Person" {
		t.Errorf("body = %v", srv.lastBody)
	}
}

func TestRegister_Conflict(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusConflict, "PT-USER-4090", "email already registered")
	})

	res := runCLI(t, srv.URL, "", "register", "-e", "admin@example.com", "-p", "x", "-n", "Dup")
	if res.err == nil || res.err.Error() != "[PT-USER-4090] email already registered" {
		t.Errorf("error = %v", res.err)
	}
}
