package entity

import "time"

// Roles válidos para User.
const (
	RolePlatformAdmin = "platform_admin"
	RoleBusinessAdmin = "business_admin"
	RoleManager       = "manager"
	RoleInhouseSales  = "inhouse_sales"
	RoleTeleCalling   = "tele_calling"
	RoleMarketing     = "marketing"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RolePlatformAdmin, RoleBusinessAdmin, RoleManager, RoleInhouseSales, RoleTeleCalling, RoleMarketing:
		return true
	}
	return false
}

// User representa un miembro del equipo (pertenece a un Tenant y opcionalmente a una Store).
type User struct {
	ID           string
	TenantID     string
	StoreID      *string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Floor        int    // piso asignado dentro de la tienda; 0 = sin asignación
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
