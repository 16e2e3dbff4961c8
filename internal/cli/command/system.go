package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/connection"
)

// HealthCommand checks server liveness, or readiness with --ready.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check server health",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ready",
				Usage: "Check readiness (session restored) instead of liveness",
			},
		},
		Action: health,
	}
}

func health(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	path := "/health"
	if c.Bool("ready") {
		path = "/ready"
	}
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result map[string]string
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, func(w io.Writer, _ bool) error {
		_, err := fmt.Fprintf(w, "%s: %s\n", client.BaseURL(), result["status"])
		return err
	})
}
