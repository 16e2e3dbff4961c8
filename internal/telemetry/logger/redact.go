package logger

import (
	"log/slog"
	"strings"
)

// Value prefixes that are always redacted regardless of the key.
var sensitiveValuePrefixes = []string{
	"$argon2id$", // encoded password hash
}

// Key fragments whose values are replaced outright.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"hash",
	"bearer",
	"cookie",
}

// Keys whose values are email addresses: "email", "user_email" and so on.
const emailKeySuffix = "email"

const redactedValue = "***REDACTED***"

// redactSensitive rewrites one attribute on its way to the handler.
// Credentials are replaced, email addresses are masked, and groups are
// walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if IsSensitiveValue(v) || IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if isEmailKey(a.Key) {
			return slog.String(a.Key, MaskEmail(v))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// MaskEmail keeps the first character of the local part and the domain:
// "john.smith@company.com" becomes "j***@company.com". Masking an
// already masked address returns it unchanged.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// IsSensitiveKey reports whether a key names credential material.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether a value is credential material
// whatever key it was logged under.
func IsSensitiveValue(value string) bool {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

func isEmailKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), emailKeySuffix)
}
