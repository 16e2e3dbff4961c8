// Package domain defines the core domain models for the portal.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - Identity: a known portal principal (admin, support or client)
//   - AuthState: the derived view of the current session
//   - Ticket: the support ticket shown on the ticket detail page
//   - Errors: coded domain errors shared by every layer
//
// The role to dashboard table used by the route guard and the landing
// redirector also lives here so that both consult the same mapping.
package domain
