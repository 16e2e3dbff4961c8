package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/config"
	"github.com/symetrix360/portal-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show CLI configuration",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Set a configuration value",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
		},
	}
}

func configPath(c *cli.Context) string {
	if p, ok := c.App.Metadata[metaConfigPath].(string); ok && p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func configShow(c *cli.Context) error {
	cfg := cliConfig(c)
	return render(c, cfg, func(w io.Writer, _ bool) error {
		t := &output.Table{Headers: []string{"KEY", "VALUE"}}
		for _, key := range config.Keys() {
			v, _ := cfg.Get(key)
			t.AddRow(key, v)
		}
		if err := t.Render(w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\nFile: %s\n", configPath(c))
		return err
	})
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE (keys: %v)", config.Keys())
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	cfg := cliConfig(c)
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	path := configPath(c)
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s = %s (saved to %s)\n", key, value, path)
	return nil
}
