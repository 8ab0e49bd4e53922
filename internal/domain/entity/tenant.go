package entity

import "time"

// Tenant representa una joyería cliente de la plataforma (multi-tenant).
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Plan      string // basic, pro, enterprise
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
