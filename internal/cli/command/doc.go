// Package command defines the portal-cli commands on urfave/cli/v2.
//
// Every action follows the same shape: resolve global flags against the
// CLI config file, call the portal-server JSON API and render the result
// to App.Writer in the selected output format.
package command
