package dto

import "time"

// CreateAppointmentRequest scheduled_at en RFC3339.
type CreateAppointmentRequest struct {
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Purpose         string    `json:"purpose"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	StoreID         *string   `json:"store_id"`
	Floor           int       `json:"floor"`
	AssignedTo      *string   `json:"assigned_to"`
	Notes           string    `json:"notes"`
}

// UpdateAppointmentRequest reprogramación y datos; el estado se cambia con PATCH /status.
type UpdateAppointmentRequest struct {
	Purpose         *string    `json:"purpose"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	StoreID         *string    `json:"store_id"`
	Floor           *int       `json:"floor"`
	AssignedTo      *string    `json:"assigned_to"`
	Notes           *string    `json:"notes"`
}

// AppointmentResponse appointment_date es el nombre que consumen las listas del cliente.
type AppointmentResponse struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	StoreID         *string   `json:"store_id"`
	Floor           int       `json:"floor"`
	CustomerID      string    `json:"customer_id,omitempty"`
	CustomerName    string    `json:"customer_name"`
	Purpose         string    `json:"purpose"`
	AppointmentDate time.Time `json:"appointment_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	AssignedTo      *string   `json:"assigned_to"`
	CreatedBy       string    `json:"created_by"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
