// Package httpserver provides the HTTP/HTTPS server of the portal.
//
// NewRouter binds the handler package to routes on a net/http ServeMux
// and wraps them in middleware: request ids, panic recovery, audit
// logging, CORS, per-IP rate limiting on credential endpoints, request
// metrics and the role guard for pages and the admin API.
package httpserver
