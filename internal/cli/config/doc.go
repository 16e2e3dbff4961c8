// Package config holds the portal-cli preferences file (~/.portal/cli.yaml).
//
// Flags and PORTAL_SERVER take precedence over the file; the file only
// supplies defaults for the server address and output format.
package config
