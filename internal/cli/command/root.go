package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/config"
	"github.com/symetrix360/portal-go/internal/cli/connection"
	"github.com/symetrix360/portal-go/internal/cli/output"
	"github.com/symetrix360/portal-go/internal/infra/buildinfo"
	"github.com/symetrix360/portal-go/internal/infra/tlsroots"
)

const (
	metaConfig     = "cliConfig"
	metaConfigPath = "cliConfigPath"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "portal-cli",
		Usage:    "Support portal command-line client",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			RegisterCommand(),
			UserCommand(),
			TicketCommand(),
			HealthCommand(),
			ConfigCommand(),
		},
		Before: loadConfig,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "portal-server address (e.g., http://localhost:5080)",
			EnvVars: []string{"PORTAL_SERVER"},
			Value:   config.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM bundle of extra CAs to trust for https servers",
			EnvVars: []string{"PORTAL_CA_FILE"},
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"PORTAL_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

func loadConfig(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaConfigPath] = path
	return nil
}

// cliConfig returns the config loaded by the Before hook, or defaults.
func cliConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server   string
	Output   output.Format
	Wide     bool
	CAFile   string
	Insecure bool
}

// ParseGlobalFlags extracts global flags from context. Values not given
// on the command line or in the environment come from the config file.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := cliConfig(c)

	server := c.String("server")
	if !c.IsSet("server") {
		server = cfg.DefaultServer
	}
	format := c.String("output")
	if !c.IsSet("output") {
		format = cfg.DefaultOutput
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:   server,
		Output:   f,
		Wide:     c.Bool("wide"),
		CAFile:   c.String("ca-file"),
		Insecure: c.Bool("insecure"),
	}, nil
}

// EnsureConnected returns a client for the resolved server address.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, err
	}
	var opts []connection.Option
	if flags.CAFile != "" || flags.Insecure {
		tlsCfg, err := tlsroots.ClientConfig(flags.CAFile, flags.Insecure)
		if err != nil {
			return nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}
	return connection.NewHTTPClient(flags.Server, opts...), nil
}

func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, connection.DefaultTimeout)
}

// render writes data in the selected format. In table mode a non-nil
// table callback replaces the reflective table rendering.
func render(c *cli.Context, data any, table func(w io.Writer, wide bool) error) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	w := c.App.Writer
	if flags.Output == output.FormatTable && table != nil {
		return table(w, flags.Wide)
	}
	return output.NewFormatter(flags.Output, flags.Wide).Format(w, data)
}

// requireArg returns the first positional argument or a usage error.
func requireArg(c *cli.Context, name string) (string, error) {
	v := c.Args().First()
	if v == "" {
		return "", fmt.Errorf("%s required", name)
	}
	return v, nil
}
