// Package logger provides structured logging for the portal.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the process default
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: sensitive data redaction
//
// Passwords, password hashes and other credential material never reach
// the output: attributes with sensitive key names and argon2 hash values
// are replaced before the handler writes them.
package logger
