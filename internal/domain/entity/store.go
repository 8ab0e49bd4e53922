package entity

import "time"

// Store representa una tienda (sucursal) de un Tenant. Floors es el número de pisos del local.
type Store struct {
	ID        string
	TenantID  string
	Name      string
	City      string
	Floors    int
	CreatedAt time.Time
	UpdatedAt time.Time
}
