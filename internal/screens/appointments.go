package screens

import (
	"time"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// AppointmentRow fila de la agenda.
type AppointmentRow struct {
	Meta
	CustomerID   string
	CustomerName string
	Purpose      string
	Status       string
	ScheduledAt  livelist.Date
	Duration     int // minutos
}

// NormalizeAppointment status ausente = scheduled; cliente ausente = UnknownCustomer.
func NormalizeAppointment(f livelist.Fields) AppointmentRow {
	return AppointmentRow{
		Meta:         metaFrom(f, "appointment"),
		CustomerID:   f.String("customer_id", "customer.id", "customer"),
		CustomerName: f.StringOr(UnknownCustomer, "customer_name", "customer.name"),
		Purpose:      f.String("purpose", "title"),
		Status:       status(f, entity.AppointmentScheduled, "status"),
		ScheduledAt:  f.Date("appointment_date", "scheduled_at", "date"),
		Duration:     f.Int("duration_minutes", 30),
	}
}

// Appointments pantalla de citas.
var Appointments = Definition[AppointmentRow]{
	Table:     "appointments",
	Path:      "appointments",
	Normalize: NormalizeAppointment,
	Action:    "status",
	Field:     "status",
}

// AppointmentSummary tarjetas de la agenda.
type AppointmentSummary struct {
	Total          int
	Today          int
	ThisWeek       int
	ThisMonth      int
	ByStatus       map[string]int
	CompletionRate float64
}

// SummarizeAppointments se recalcula en cada snapshot.
func SummarizeAppointments(items []AppointmentRow, now time.Time) AppointmentSummary {
	at := func(a AppointmentRow) livelist.Date { return a.ScheduledAt }
	byStatus := livelist.CountByStatus(items, func(a AppointmentRow) string { return a.Status })
	return AppointmentSummary{
		Total:          len(items),
		Today:          livelist.CountInWindow(items, at, livelist.WindowToday, now),
		ThisWeek:       livelist.CountInWindow(items, at, livelist.WindowThisWeek, now),
		ThisMonth:      livelist.CountInWindow(items, at, livelist.WindowThisMonth, now),
		ByStatus:       byStatus,
		CompletionRate: livelist.Percentage(byStatus[entity.AppointmentCompleted], len(items)),
	}
}
