package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func logEntry(t *testing.T, fn func(l Logger)) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	fn(l)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return entry
}

func TestRedactSensitive_Keys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		redacted bool
	}{
		{"password", "hunter2", true},
		{"demo_password", "demo", true},
		{"password_hash", "abc", true},
		{"client_secret", "s3", true},
		{"Authorization_Token", "xyz", true},
		{"credential", "c", true},
		{"session_key", "portal:session:current", false},
		{"password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			entry := logEntry(t, func(l Logger) { l.Info("msg", tt.key, tt.value) })
			got := entry[tt.key]
			if tt.redacted && got != redactedValue {
				t.Errorf("%s = %v, want redacted", tt.key, got)
			}
			if !tt.redacted && got != tt.value {
				t.Errorf("%s = %v, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestRedactSensitive_Argon2Value(t *testing.T) {
	hash := "$argon2id$v=19$m=16384,t=2,p=2$c2FsdA$aGFzaA"
	entry := logEntry(t, func(l Logger) { l.Info("seeded", "value", hash) })
	if entry["value"] != redactedValue {
		t.Errorf("argon2 hash leaked: %v", entry["value"])
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	entry := logEntry(t, func(l Logger) {
		l.Info("register", slog.Group("request", "email", "a@b.c", "password", "pw"))
	})
	group, ok := entry["request"].(map[string]any)
	if !ok {
		t.Fatalf("request group missing: %v", entry)
	}
	if group["password"] != redactedValue {
		t.Errorf("nested password = %v, want redacted", group["password"])
	}
	if group["email"] != "a***@b.c" {
		t.Errorf("nested email = %v", group["email"])
	}
}

func TestRedactSensitive_MasksEmailKeys(t *testing.T) {
	entry := logEntry(t, func(l Logger) {
		l.Info("login", "email", "admin@example.com", "support_email", "sarah.tech@example.com", "user_id", "1")
	})
	if entry["email"] != "a***@example.com" {
		t.Errorf("email = %v", entry["email"])
	}
	if entry["support_email"] != "s***@example.com" {
		t.Errorf("support_email = %v", entry["support_email"])
	}
	if entry["user_id"] != "1" {
		t.Errorf("user_id = %v", entry["user_id"])
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john.smith@company.com", "j***@company.com"},
		{"a@b.c", "a***@b.c"},
		{"not-an-email", "***"},
		{"@nolocal.com", "***"},
		{"", ""},
		{"j***@company.com", "j***@company.com"},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.in); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSensitiveValue(t *testing.T) {
	if !IsSensitiveValue("$argon2id$v=19$...") {
		t.Error("argon2 hash should be sensitive")
	}
	if IsSensitiveValue("plain") {
		t.Error("plain value should not be sensitive")
	}
}
