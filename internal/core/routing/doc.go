// Package routing decides where a visitor may go.
//
// Guard is a pure function of the auth state, the roles a page requires
// and the requested path. Redirector sends a visitor arriving at the
// landing path to the right dashboard, or to the login page.
package routing
