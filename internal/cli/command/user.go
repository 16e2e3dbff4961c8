package command

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/connection"
	"github.com/symetrix360/portal-go/internal/cli/output"
	"github.com/symetrix360/portal-go/internal/core/domain"
)

// UserCommand returns the user subcommand group. The server only
// accepts these calls from a signed-in admin.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"users"},
		Usage:   "Manage directory users (admin only)",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List users",
				Action: userList,
			},
			{
				Name:      "get",
				Usage:     "Show a user",
				ArgsUsage: "USER_ID",
				Action:    userGet,
			},
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email", Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Role: admin, support, client"},
					&cli.StringFlag{Name: "department", Aliases: []string{"d"}, Usage: "Department"},
					&cli.StringFlag{Name: "avatar", Usage: "Avatar URL"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Initial password"},
				},
				Action: userCreate,
			},
			{
				Name:      "update",
				Usage:     "Update fields of a user",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New display name"},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "New role"},
					&cli.StringFlag{Name: "department", Aliases: []string{"d"}, Usage: "New department"},
					&cli.StringFlag{Name: "avatar", Usage: "New avatar URL"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password"},
				},
				Action: userUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a user",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Skip confirmation"},
				},
				Action: userDelete,
			},
		},
	}
}

var userFields = []string{"email", "name", "role", "department", "avatar", "password"}

func userList(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/v1/users")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Items []*domain.Identity `json:"items"`
		Total int                `json:"total"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result.Items, func(w io.Writer, wide bool) error {
		if err := identityTable(result.Items, wide).Render(w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\nTotal: %d users\n", result.Total)
		return err
	})
}

func userGet(c *cli.Context) error {
	id, err := requireArg(c, "user ID")
	if err != nil {
		return err
	}
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/v1/users/"+url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return renderIdentity(c, resp)
}

func userCreate(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]string{}
	for _, name := range userFields {
		if v := c.String(name); v != "" {
			body[name] = v
		}
	}

	resp, err := client.Post(ctx, "/api/v1/users", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return renderIdentity(c, resp)
}

func userUpdate(c *cli.Context) error {
	id, err := requireArg(c, "user ID")
	if err != nil {
		return err
	}

	// Only flags given on the command line are sent, so an empty
	// department can still be set explicitly.
	body := map[string]string{}
	for _, name := range userFields {
		if c.IsSet(name) {
			body[name] = c.String(name)
		}
	}
	if len(body) == 0 {
		return fmt.Errorf("nothing to update: pass at least one of --%s", strings.Join(userFields, ", --"))
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Patch(ctx, "/api/v1/users/"+url.PathEscape(id), body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return renderIdentity(c, resp)
}

func userDelete(c *cli.Context) error {
	id, err := requireArg(c, "user ID")
	if err != nil {
		return err
	}

	if !c.Bool("force") {
		ok, err := confirm(c, fmt.Sprintf("Delete user %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.App.Writer, "Aborted")
			return nil
		}
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Delete(ctx, "/api/v1/users/"+url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, func(w io.Writer, _ bool) error {
		_, err := fmt.Fprintf(w, "User %s deleted\n", result.ID)
		return err
	})
}

func renderIdentity(c *cli.Context, resp *http.Response) error {
	var identity domain.Identity
	if err := connection.ParseResponse(resp, &identity); err != nil {
		return err
	}
	return render(c, &identity, func(w io.Writer, _ bool) error {
		return identityDetail(w, &identity, domain.DashboardPath(identity.Role))
	})
}

func identityTable(items []*domain.Identity, wide bool) *output.Table {
	t := &output.Table{Headers: []string{"ID", "EMAIL", "NAME", "ROLE", "DEPARTMENT"}}
	if wide {
		t.Headers = append(t.Headers, "AVATAR", "CREATED")
	}
	for _, u := range items {
		row := []string{u.ID, u.Email, u.Name, string(u.Role), orDash(u.Department)}
		if wide {
			row = append(row, orDash(u.Avatar), formatTime(u.CreatedAt))
		}
		t.AddRow(row...)
	}
	return t
}

func identityDetail(w io.Writer, u *domain.Identity, dashboard string) error {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", u.ID)
	t.AddRow("Email", u.Email)
	t.AddRow("Name", u.Name)
	t.AddRow("Role", string(u.Role))
	t.AddRow("Department", orDash(u.Department))
	t.AddRow("Avatar", orDash(u.Avatar))
	t.AddRow("Created", formatTime(u.CreatedAt))
	if dashboard != "" {
		t.AddRow("Dashboard", dashboard)
	}
	return t.Render(w)
}

// confirm asks a yes/no question on App.Reader. Anything but y or yes
// is a no.
func confirm(c *cli.Context, question string) (bool, error) {
	fmt.Fprintf(c.App.Writer, "%s [y/N]: ", question)
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
