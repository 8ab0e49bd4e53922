package screens

import (
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// TicketBuckets columnas del tablero de soporte.
var TicketBuckets = []string{
	entity.TicketOpen,
	entity.TicketInProgress,
	entity.TicketWaiting,
	entity.TicketResolved,
	entity.TicketClosed,
}

type TicketRow struct {
	Meta
	Subject      string
	CustomerName string
	Priority     string
	Status       string
}

func NormalizeTicket(f livelist.Fields) TicketRow {
	return TicketRow{
		Meta:         metaFrom(f, "ticket"),
		Subject:      f.StringOr("(sin asunto)", "subject", "title"),
		CustomerName: f.StringOr(UnknownCustomer, "customer_name", "customer.name"),
		Priority:     status(f, "medium", "priority"),
		Status:       status(f, entity.TicketOpen, "status"),
	}
}

var Tickets = Definition[TicketRow]{
	Table:     "tickets",
	Path:      "tickets",
	Normalize: NormalizeTicket,
	Action:    "status",
	Field:     "status",
}

type TicketSummary struct {
	Total   int
	Open    int // todo lo que no está resuelto ni cerrado
	Urgent  int
	Buckets []livelist.Group[TicketRow]
}

func SummarizeTickets(items []TicketRow) TicketSummary {
	s := TicketSummary{
		Total:   len(items),
		Buckets: livelist.GroupBy(items, func(t TicketRow) string { return t.Status }, TicketBuckets),
	}
	for _, t := range items {
		if t.Status != entity.TicketResolved && t.Status != entity.TicketClosed {
			s.Open++
			if t.Priority == "urgent" {
				s.Urgent++
			}
		}
	}
	return s
}
