package command

import (
	"fmt"
	"io"
	"net/url"

	"github.com/urfave/cli/v2"

	"github.com/symetrix360/portal-go/internal/cli/connection"
	"github.com/symetrix360/portal-go/internal/cli/output"
	"github.com/symetrix360/portal-go/internal/core/domain"
)

type ticketDetail struct {
	Ticket        domain.Ticket      `json:"ticket"`
	StatusLabel   string             `json:"status_label"`
	PriorityLabel string             `json:"priority_label"`
	SupportAgents []*domain.Identity `json:"support_agents"`
}

// TicketCommand returns the ticket subcommand group.
func TicketCommand() *cli.Command {
	return &cli.Command{
		Name:  "ticket",
		Usage: "Inspect tickets",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show ticket details",
				ArgsUsage: "TICKET_ID",
				Action:    ticketGet,
			},
		},
	}
}

func ticketGet(c *cli.Context) error {
	id, err := requireArg(c, "ticket ID")
	if err != nil {
		return err
	}
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/tickets/"+url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var detail ticketDetail
	if err := connection.ParseResponse(resp, &detail); err != nil {
		if connection.IsRedirect(err) {
			return fmt.Errorf("%w (sign in with portal-cli login first)", err)
		}
		return err
	}
	return render(c, detail, func(w io.Writer, wide bool) error {
		return printTicket(w, &detail, wide)
	})
}

func printTicket(w io.Writer, d *ticketDetail, wide bool) error {
	tk := d.Ticket
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", tk.ID)
	t.AddRow("Title", tk.Title)
	t.AddRow("Status", d.StatusLabel)
	t.AddRow("Priority", d.PriorityLabel)
	t.AddRow("Category", orDash(tk.Category))
	t.AddRow("ERP System", orDash(tk.ERPSystem))
	t.AddRow("Department", orDash(tk.Department))
	t.AddRow("Reporter", orDash(tk.Reporter))
	t.AddRow("Assigned", orDash(tk.AssignedAgent))
	t.AddRow("Created", formatTime(tk.CreatedAt))
	t.AddRow("Updated", formatTime(tk.UpdatedAt))
	if wide {
		t.AddRow("Description", orDash(tk.Description))
	}
	if err := t.Render(w); err != nil {
		return err
	}

	if len(d.SupportAgents) == 0 {
		_, err := fmt.Fprintln(w, "\nNo support agents available")
		return err
	}
	fmt.Fprintf(w, "\nSupport agents (%d):\n", len(d.SupportAgents))
	return identityTable(d.SupportAgents, false).Render(w)
}
