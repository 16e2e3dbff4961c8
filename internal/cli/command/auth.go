package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/connection"
	"github.com/symetrix360/portal-go/internal/core/domain"
)

type signInResult struct {
	User     *domain.Identity `json:"user"`
	Redirect string           `json:"redirect"`
}

type authState struct {
	Authenticated bool             `json:"authenticated"`
	Initializing  bool             `json:"initializing"`
	User          *domain.Identity `json:"user,omitempty"`
	Dashboard     string           `json:"dashboard,omitempty"`
}

// LoginCommand signs a user in.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
				EnvVars: []string{"PORTAL_PASSWORD"},
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    c.String("email"),
		"password": c.String("password"),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result signInResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, func(w io.Writer, _ bool) error {
		return printSignIn(w, "Signed in as", result)
	})
}

// LogoutCommand ends the active session.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out of the active session",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/api/v1/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Redirect string `json:"redirect"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, func(w io.Writer, _ bool) error {
		_, err := fmt.Fprintln(w, "Signed out")
		return err
	})
}

// WhoamiCommand shows the signed-in identity.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: whoami,
	}
}

func whoami(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/v1/auth/state")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var state authState
	if err := connection.ParseResponse(resp, &state); err != nil {
		return err
	}
	return render(c, state, func(w io.Writer, wide bool) error {
		switch {
		case state.Initializing:
			_, err := fmt.Fprintln(w, "Session is still initializing")
			return err
		case !state.Authenticated || state.User == nil:
			_, err := fmt.Fprintln(w, "Not signed in")
			return err
		}
		return identityDetail(w, state.User, state.Dashboard)
	})
}

// RegisterCommand creates an account and signs it in.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", EnvVars: []string{"PORTAL_PASSWORD"}, Required: true},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true},
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Role: admin, support, client (default client)"},
			&cli.StringFlag{Name: "department", Aliases: []string{"d"}, Usage: "Department"},
		},
		Action: register,
	}
}

func register(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]string{
		"email":    c.String("email"),
		"password": c.String("password"),
		"name":     c.String("name"),
	}
	if role := c.String("role"); role != "" {
		body["role"] = role
	}
	if dept := c.String("department"); dept != "" {
		body["department"] = dept
	}

	resp, err := client.Post(ctx, "/api/v1/auth/register", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result signInResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, func(w io.Writer, _ bool) error {
		return printSignIn(w, "Registered and signed in as", result)
	})
}

func printSignIn(w io.Writer, prefix string, r signInResult) error {
	if r.User == nil {
		_, err := fmt.Fprintf(w, "%s unknown user\n", prefix)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s <%s> (%s)\nDashboard: %s\n",
		prefix, r.User.Name, r.User.Email, r.User.Role, r.Redirect)
	return err
}
