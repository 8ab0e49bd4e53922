package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// Nombres de tabla tal como viajan en el canal de cambios.
const (
	TableCustomers    = "customers"
	TableAppointments = "appointments"
	TableOrders       = "orders"
	TableProducts     = "products"
	TableTickets      = "tickets"
	TableLeads        = "leads"
	TableUsers        = "users"
	TableStores       = "stores"
	TableTenants      = "tenants"
)

// notifier publica un ChangeEvent después de cada mutación. Un fallo solo se registra:
// la escritura ya quedó en la base y los clientes pueden refrescar a mano.
type notifier struct {
	pub ports.ChangePublisher
	log zerolog.Logger
}

func (n notifier) notify(ctx context.Context, event, table, recordID, tenantID string) {
	if n.pub == nil {
		return
	}
	ev := entity.ChangeEvent{
		Event:    event,
		Table:    table,
		RecordID: recordID,
		TenantID: tenantID,
		At:       time.Now().UTC(),
	}
	if err := n.pub.Publish(ctx, ev); err != nil {
		n.log.Warn().Err(err).Str("table", table).Str("event", event).Msg("no se pudo publicar el cambio")
	}
}

// scoped adapta una entidad a scope.Scoped sin que el dominio dependa del resolver.
type scoped[T any] struct {
	rec   T
	attrs scope.Attributes
}

func (s scoped[T]) ScopeAttributes() scope.Attributes { return s.attrs }

// resolve aplica el Scope Resolver a registros de dominio conservando el orden.
func resolve[T any](user *scope.User, items []T, attrs func(T) scope.Attributes, p scope.Policy) []T {
	wrapped := make([]scoped[T], len(items))
	for i, it := range items {
		wrapped[i] = scoped[T]{rec: it, attrs: attrs(it)}
	}
	visible := scope.Resolve(user, wrapped, p)
	out := make([]T, len(visible))
	for i, w := range visible {
		out[i] = w.rec
	}
	return out
}

// authorize un registro de otro tenant o fuera del alcance del usuario se reporta como inexistente.
func authorize(user *scope.User, a scope.Attributes) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if user.TenantID != "" && a.TenantID != user.TenantID {
		return domain.ErrNotFound
	}
	if !scope.Visible(user, a, scope.Policy{}) {
		return domain.ErrNotFound
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func customerAttrs(c *entity.Customer) scope.Attributes {
	return scope.Attributes{
		TenantID:   c.TenantID,
		StoreID:    deref(c.StoreID),
		AssigneeID: deref(c.AssignedTo),
		CreatorID:  c.CreatedBy,
		Kind:       "customer",
	}
}

func appointmentAttrs(a *entity.Appointment) scope.Attributes {
	return scope.Attributes{
		TenantID:   a.TenantID,
		StoreID:    deref(a.StoreID),
		Floor:      a.Floor,
		AssigneeID: deref(a.AssignedTo),
		CreatorID:  a.CreatedBy,
		Kind:       "appointment",
	}
}

func orderAttrs(o *entity.Order) scope.Attributes {
	return scope.Attributes{
		TenantID:   o.TenantID,
		StoreID:    deref(o.StoreID),
		AssigneeID: deref(o.AssignedTo),
		CreatorID:  o.CreatedBy,
		Kind:       "order",
	}
}

func ticketAttrs(t *entity.Ticket) scope.Attributes {
	return scope.Attributes{
		TenantID:   t.TenantID,
		StoreID:    deref(t.StoreID),
		AssigneeID: deref(t.AssignedTo),
		CreatorID:  t.CreatedBy,
		Kind:       "ticket",
	}
}

func leadAttrs(l *entity.Lead) scope.Attributes {
	return scope.Attributes{
		TenantID:   l.TenantID,
		StoreID:    deref(l.StoreID),
		AssigneeID: deref(l.AssignedTo),
		CreatorID:  l.CreatedBy,
		Kind:       entity.LeadKind(l.Source),
	}
}

// listFilter traduce la query HTTP sin paginar: la página se corta después del Scope
// Resolver (ver paginate), si no un registro visible quedaría fuera según su posición
// en el orden del tenant. El tenant siempre sale del token; solo platform_admin sin
// tenant lista todos.
func listFilter(user *scope.User, q dto.ListQuery) repository.ListFilter {
	f := repository.ListFilter{
		TenantID: user.TenantID,
		StoreID:  q.Store,
		Status:   strings.ToLower(strings.TrimSpace(q.Status)),
		Search:   strings.TrimSpace(q.Search),
	}
	if t, ok := livelist.ParseDate(q.From).Time(); ok {
		f.From = &t
	}
	if t, ok := livelist.ParseDate(q.To).Time(); ok {
		// Un "to" de solo fecha incluye el día completo.
		if len(strings.TrimSpace(q.To)) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &t
	}
	return f
}

// pagedFilter para listados sin reglas por rol (catálogo, equipo): LIMIT/OFFSET en SQL.
func pagedFilter(user *scope.User, q dto.ListQuery) repository.ListFilter {
	f := listFilter(user, q)
	if !q.All {
		q.DefaultPage()
		f.Limit, f.Offset = q.Limit, q.Offset
	}
	return f
}

// paginate aplica el alcance y después la página. Devuelve la página y el total visible.
func paginate[T any](user *scope.User, items []T, attrs func(T) scope.Attributes, p scope.Policy, q dto.ListQuery) ([]T, int) {
	return dto.Page(resolve(user, items, attrs, p), q)
}

// requireTenant las escrituras siempre pertenecen a un tenant.
func requireTenant(user *scope.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if user.TenantID == "" {
		return domain.ErrForbidden
	}
	return nil
}

// defaultAssignee un vendedor que crea un registro sin asignar queda como responsable.
func defaultAssignee(user *scope.User, in *string) *string {
	if in != nil && *in != "" {
		return in
	}
	if user.Role == entity.RoleInhouseSales || user.Role == entity.RoleTeleCalling {
		id := user.ID
		return &id
	}
	return nil
}

func defaultStore(user *scope.User, in *string) *string {
	if in != nil && *in != "" {
		return in
	}
	if user.StoreID != "" {
		s := user.StoreID
		return &s
	}
	return nil
}

func parseDay(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, ok := livelist.ParseDate(*s).Time()
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
