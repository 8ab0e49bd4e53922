package repository

import "time"

// ListFilter filtros comunes de listados. La restricción por tenant se aplica en SQL;
// las reglas por rol (tienda, piso, dueño) las aplica el Scope Resolver después, por eso
// los listados con alcance piden Limit 0 (sin LIMIT) y paginan en la capa de aplicación.
type ListFilter struct {
	TenantID string // vacío = todos los tenants (solo platform_admin)
	StoreID  string
	Status   string
	Search   string
	From     *time.Time
	To       *time.Time
	Limit    int // 0 = sin límite
	Offset   int
}
