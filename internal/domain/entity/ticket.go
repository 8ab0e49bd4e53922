package entity

import "time"

// Estados de Ticket.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketWaiting    = "waiting"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// TicketTransitions un ticket resuelto puede reabrirse; closed es terminal.
var TicketTransitions = Transitions{
	TicketOpen:       {TicketInProgress, TicketWaiting, TicketClosed},
	TicketInProgress: {TicketWaiting, TicketResolved},
	TicketWaiting:    {TicketInProgress, TicketResolved},
	TicketResolved:   {TicketClosed, TicketOpen},
	TicketClosed:     nil,
}

// Ticket solicitud de soporte (reparación, garantía, reclamo).
type Ticket struct {
	ID          string
	TenantID    string
	StoreID     *string
	CustomerID  *string
	Subject     string
	Description string
	Priority    string // low, medium, high, urgent
	Status      string
	AssignedTo  *string
	CreatedBy   string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
