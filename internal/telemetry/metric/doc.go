// Package metric exposes the portal's Prometheus metrics.
//
// Registry owns a private prometheus.Registry with:
//
//   - portal_auth_login_attempts_total{outcome}
//   - portal_auth_session_active
//   - portal_directory_identities
//   - portal_guard_decisions_total{kind}
//   - portal_http_requests_total{method,route,status}
//   - portal_http_request_duration_seconds{method,route}
//
// plus the Go runtime, process and build info collectors. Registry also
// satisfies the auth service's observer contract.
package metric
