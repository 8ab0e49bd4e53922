package entity

import "time"

// Estados de Appointment.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no_show"
)

// AppointmentTransitions completed, cancelled y no_show son terminales.
var AppointmentTransitions = Transitions{
	AppointmentScheduled:  {AppointmentConfirmed, AppointmentCancelled, AppointmentNoShow},
	AppointmentConfirmed:  {AppointmentInProgress, AppointmentCancelled, AppointmentNoShow},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted:  nil,
	AppointmentCancelled:  nil,
	AppointmentNoShow:     nil,
}

// Appointment cita en tienda (prueba de piezas, diseño a medida, entrega).
type Appointment struct {
	ID              string
	TenantID        string
	StoreID         *string
	Floor           int
	CustomerID      string
	CustomerName    string // denormalizado en lecturas (JOIN customers)
	Purpose         string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          string
	AssignedTo      *string
	CreatedBy       string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
