package service

import (
	"context"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// TicketDetail is the ticket detail view: the ticket, its display labels
// and the support agents it could be assigned to.
type TicketDetail struct {
	Ticket        domain.Ticket      `json:"ticket"`
	StatusLabel   string             `json:"status_label"`
	PriorityLabel string             `json:"priority_label"`
	SupportAgents []*domain.Identity `json:"support_agents"`
}

// TicketService serves ticket details. Tickets are mock data; there is
// no ticket backend.
type TicketService struct {
	dir UserDirectory
	now func() time.Time
}

// NewTicketService creates a ticket service reading agents from dir.
func NewTicketService(dir UserDirectory) *TicketService {
	return &TicketService{dir: dir, now: time.Now}
}

// Get returns the detail view for ticket id.
func (s *TicketService) Get(ctx context.Context, id string) (*TicketDetail, error) {
	if id == "" {
		return nil, domain.ErrTicketNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ticket := mockTicket(id, s.now())

	var agents []*domain.Identity
	for _, identity := range s.dir.List() {
		if identity.Role == domain.RoleSupport {
			agents = append(agents, identity)
		}
	}

	return &TicketDetail{
		Ticket:        ticket,
		StatusLabel:   ticket.Status.Label(),
		PriorityLabel: ticket.Priority.Label(),
		SupportAgents: agents,
	}, nil
}

// mockTicket returns the fixed demo ticket under the requested id,
// created two days and last updated one hour before now.
func mockTicket(id string, now time.Time) domain.Ticket {
	return domain.Ticket{
		ID:    id,
		Title: "Database Connection Error in Reporting Module",
		Description: "When trying to generate monthly reports, I get an error that says " +
			"'Database connection failed'. This happens consistently and prevents me from completing my work.",
		Status:        domain.TicketStatusInProgress,
		Priority:      domain.TicketPriorityHigh,
		Category:      "Technical Issue",
		ERPSystem:     "s4_hana",
		Department:    "finance",
		ClientID:      "user-123",
		SupportID:     "support-1",
		Reporter:      "John Doe",
		AssignedAgent: "Jennifer Smith",
		CreatedAt:     now.Add(-48 * time.Hour),
		UpdatedAt:     now.Add(-time.Hour),
	}
}
