// Package scope decide qué registros de una colección puede ver el usuario actual.
//
// La visibilidad es función pura de (rol del usuario, atributos de alcance del usuario,
// atributos de alcance del registro). Nunca depende del contenido del registro.
// Lo usan tanto los listados del API como las Live Lists del cliente.
package scope

import "github.com/jhoicas/joyeria-crm/internal/domain/entity"

// Roles de contribuidor individual: ven solo lo propio (owner, assignee o creator).
var individualRoles = map[string]bool{
	entity.RoleInhouseSales: true,
	"sales":                 true,
	"stylist":               true,
}

// DefaultMarketingKinds tipos de registro visibles para marketing.
var DefaultMarketingKinds = []string{"announcement", "campaign"}

// User identidad explícita que se pasa al resolver (no hay estado global).
type User struct {
	ID       string
	Role     string
	TenantID string
	StoreID  string
	Floor    int // 0 = sin piso asignado
}

// Attributes atributos de alcance de un registro. Vacío = sin valor.
type Attributes struct {
	TenantID   string
	StoreID    string
	Floor      int
	OwnerID    string
	AssigneeID string
	CreatorID  string
	Kind       string // tipo de registro (appointment, campaign...)
}

// Scoped lo implementa cualquier registro filtrable.
type Scoped interface {
	ScopeAttributes() Attributes
}

// Policy ajustes por colección.
type Policy struct {
	// TenantLevel: la colección es un recurso a nivel tenant (tenants, planes);
	// platform_admin ve todo solo en estas colecciones.
	TenantLevel bool
	// MarketingKinds tipos visibles para marketing; nil = DefaultMarketingKinds.
	MarketingKinds []string
}

func (p Policy) marketingKind(kind string) bool {
	kinds := p.MarketingKinds
	if kinds == nil {
		kinds = DefaultMarketingKinds
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Visible decide para un único registro.
func Visible(user *User, a Attributes, p Policy) bool {
	if user == nil {
		return false
	}
	switch {
	case user.Role == entity.RoleBusinessAdmin:
		return true
	case user.Role == entity.RolePlatformAdmin && p.TenantLevel:
		return true
	case user.Role == entity.RoleManager:
		return sameTenant(user, a) && sameStore(user, a) && sameFloor(user, a)
	case user.Role == entity.RoleTeleCalling:
		return owns(user, a) || sameTenant(user, a)
	case user.Role == entity.RoleMarketing:
		return p.marketingKind(a.Kind)
	case individualRoles[user.Role]:
		return owns(user, a)
	default:
		// Rol no reconocido (incluye platform_admin fuera de recursos tenant): solo lo propio.
		return owns(user, a)
	}
}

// Resolve filtra records conservando el orden. Nunca devuelve nil; sin usuario devuelve vacío.
func Resolve[T Scoped](user *User, records []T, p Policy) []T {
	out := make([]T, 0, len(records))
	if user == nil {
		return out
	}
	for _, r := range records {
		if Visible(user, r.ScopeAttributes(), p) {
			out = append(out, r)
		}
	}
	return out
}

func owns(u *User, a Attributes) bool {
	if u.ID == "" {
		return false
	}
	return a.OwnerID == u.ID || a.AssigneeID == u.ID || a.CreatorID == u.ID
}

func sameTenant(u *User, a Attributes) bool {
	return u.TenantID != "" && a.TenantID == u.TenantID
}

// sameStore registro sin tienda es visible para cualquier manager del tenant.
func sameStore(u *User, a Attributes) bool {
	return a.StoreID == "" || a.StoreID == u.StoreID
}

// sameFloor solo restringe si el manager tiene piso asignado y el registro también.
func sameFloor(u *User, a Attributes) bool {
	return u.Floor == 0 || a.Floor == 0 || a.Floor == u.Floor
}
