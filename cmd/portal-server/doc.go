// Package main provides the entry point for portal-server.
//
// portal-server hosts the support portal: session restore, the login and
// registration API, role guarded dashboard pages, the admin user API and
// ticket detail views.
//
// Usage:
//
//	portal-server [flags]
//	portal-server --config /etc/portal/server.yaml
//
// Configuration comes from defaults, the optional YAML file and PORTAL_*
// environment variables (PORTAL_SERVER__HTTP__ADDR and so on). Changing
// log.level in the file takes effect without a restart.
package main
