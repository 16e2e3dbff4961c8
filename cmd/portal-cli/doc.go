// Package main provides the entry point for portal-cli.
//
// portal-cli drives a portal-server over its JSON API:
//
//	portal-cli login --email admin@example.com --password demo123
//	portal-cli whoami
//	portal-cli user list -o yaml
//	portal-cli ticket get 1042
//	portal-cli config set default_server https://portal.example.com
package main
