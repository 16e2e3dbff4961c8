// Package service holds the portal's business logic.
//
//   - AuthService: the single current session and the operations on it
//     (login, logout, registration, user administration)
//   - CredentialVerifier: password checks, demo mode or argon2id
//   - TicketService: the ticket detail view
//
// Services depend on storage through the small interfaces declared here
// and are safe for concurrent use.
package service
