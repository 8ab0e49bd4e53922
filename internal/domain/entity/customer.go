package entity

import "time"

// Estados de Customer.
const (
	CustomerActive   = "active"
	CustomerVIP      = "vip"
	CustomerInactive = "inactive"
)

// CustomerTransitions cualquier estado puede pasar a cualquier otro.
var CustomerTransitions = Transitions{
	CustomerActive:   {CustomerVIP, CustomerInactive},
	CustomerVIP:      {CustomerActive, CustomerInactive},
	CustomerInactive: {CustomerActive, CustomerVIP},
}

// Customer representa un cliente de la joyería.
type Customer struct {
	ID          string
	TenantID    string
	StoreID     *string
	Name        string
	Email       string
	Phone       string
	Status      string
	AssignedTo  *string // vendedor responsable; nil = sin asignar
	CreatedBy   string
	Birthday    *time.Time
	Anniversary *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
