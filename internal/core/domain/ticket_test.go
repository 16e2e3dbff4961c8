package domain

import "testing"

func TestTicketStatus_Label(t *testing.T) {
	tests := []struct {
		status TicketStatus
		want   string
	}{
		{TicketStatusOpen, "Open"},
		{TicketStatusInProgress, "In Progress"},
		{TicketStatusResolved, "Resolved"},
		{TicketStatusClosed, "Closed"},
		{TicketStatus("escalated"), "Open"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("%q.Label() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestTicketPriority_Label(t *testing.T) {
	tests := []struct {
		priority TicketPriority
		want     string
	}{
		{TicketPriorityLow, "Low"},
		{TicketPriorityMedium, "Medium"},
		{TicketPriorityHigh, "High"},
		{TicketPriorityUrgent, "Urgent"},
		{TicketPriority(""), "Medium"},
	}
	for _, tt := range tests {
		if got := tt.priority.Label(); got != tt.want {
			t.Errorf("%q.Label() = %q, want %q", tt.priority, got, tt.want)
		}
	}
}
