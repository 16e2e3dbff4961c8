// Package handler provides the HTTP handlers of the portal.
//
//   - auth.go: login, logout, registration and auth state
//   - users.go: admin user management
//   - pages.go: landing redirect, login page and dashboards
//   - ticket.go: ticket detail
//   - health.go: liveness and readiness
//
// Every JSON response uses the Response envelope. Domain errors map to
// HTTP statuses by code; anything else is logged and answered with
// PT-SYS-5000.
package handler
