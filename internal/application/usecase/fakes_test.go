package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore mapa por ID que conserva el orden de inserción, filtra por tenant y estado y
// pagina con Limit/Offset como lo hace el repositorio de Postgres.
type memStore[T any] struct {
	mu     sync.Mutex
	order  []string
	byID   map[string]T
	tenant func(T) string
	status func(T) string
}

func newMem[T any](tenant, status func(T) string) *memStore[T] {
	return &memStore[T]{byID: map[string]T{}, tenant: tenant, status: status}
}

func (m *memStore[T]) put(id string, v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		m.order = append(m.order, id)
	}
	m.byID[id] = v
}

func (m *memStore[T]) get(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	return v, ok
}

func (m *memStore[T]) del(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore[T]) list(f repository.ListFilter) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, 0)
	for _, id := range m.order {
		v, ok := m.byID[id]
		if !ok {
			continue
		}
		if f.TenantID != "" && m.tenant(v) != f.TenantID {
			continue
		}
		if f.Status != "" && m.status != nil && m.status(v) != f.Status {
			continue
		}
		out = append(out, v)
	}
	// LIMIT/OFFSET igual que en SQL.
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return make([]T, 0)
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

type customerRepo struct{ *memStore[*entity.Customer] }

func newCustomerRepo() *customerRepo {
	return &customerRepo{newMem(
		func(c *entity.Customer) string { return c.TenantID },
		func(c *entity.Customer) string { return c.Status },
	)}
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error { r.put(c.ID, c); return nil }
func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, _ := r.get(id)
	return c, nil
}
func (r *customerRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Customer, error) {
	return r.list(f), nil
}
func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error { r.put(c.ID, c); return nil }
func (r *customerRepo) Delete(_ context.Context, id string) error         { return r.del(id) }

type appointmentRepo struct{ *memStore[*entity.Appointment] }

func newAppointmentRepo() *appointmentRepo {
	return &appointmentRepo{newMem(
		func(a *entity.Appointment) string { return a.TenantID },
		func(a *entity.Appointment) string { return a.Status },
	)}
}

func (r *appointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.put(a.ID, a)
	return nil
}
func (r *appointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	a, _ := r.get(id)
	return a, nil
}
func (r *appointmentRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Appointment, error) {
	return r.list(f), nil
}
func (r *appointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.put(a.ID, a)
	return nil
}

type orderRepo struct{ *memStore[*entity.Order] }

func newOrderRepo() *orderRepo {
	return &orderRepo{newMem(
		func(o *entity.Order) string { return o.TenantID },
		func(o *entity.Order) string { return o.Status },
	)}
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error { r.put(o.ID, o); return nil }
func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, _ := r.get(id)
	return o, nil
}
func (r *orderRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Order, error) {
	return r.list(f), nil
}
func (r *orderRepo) UpdateStatus(_ context.Context, o *entity.Order) error { r.put(o.ID, o); return nil }

type productRepo struct{ *memStore[*entity.Product] }

func newProductRepo() *productRepo {
	return &productRepo{newMem(
		func(p *entity.Product) string { return p.TenantID },
		func(p *entity.Product) string { return p.Category },
	)}
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error { r.put(p.ID, p); return nil }
func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, _ := r.get(id)
	return p, nil
}
func (r *productRepo) GetByTenantAndSKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	for _, p := range r.list(repository.ListFilter{TenantID: tenantID}) {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *productRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, error) {
	return r.list(f), nil
}
func (r *productRepo) Update(_ context.Context, p *entity.Product) error { r.put(p.ID, p); return nil }
func (r *productRepo) Delete(_ context.Context, id string) error         { return r.del(id) }

type leadRepo struct{ *memStore[*entity.Lead] }

func newLeadRepo() *leadRepo {
	return &leadRepo{newMem(
		func(l *entity.Lead) string { return l.TenantID },
		func(l *entity.Lead) string { return l.Stage },
	)}
}

func (r *leadRepo) Create(_ context.Context, l *entity.Lead) error { r.put(l.ID, l); return nil }
func (r *leadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	l, _ := r.get(id)
	return l, nil
}
func (r *leadRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Lead, error) {
	return r.list(f), nil
}
func (r *leadRepo) UpdateStage(_ context.Context, l *entity.Lead) error { r.put(l.ID, l); return nil }

type ticketRepo struct{ *memStore[*entity.Ticket] }

func newTicketRepo() *ticketRepo {
	return &ticketRepo{newMem(
		func(t *entity.Ticket) string { return t.TenantID },
		func(t *entity.Ticket) string { return t.Status },
	)}
}

func (r *ticketRepo) Create(_ context.Context, t *entity.Ticket) error { r.put(t.ID, t); return nil }
func (r *ticketRepo) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	t, _ := r.get(id)
	return t, nil
}
func (r *ticketRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Ticket, error) {
	return r.list(f), nil
}
func (r *ticketRepo) UpdateStatus(_ context.Context, t *entity.Ticket) error {
	r.put(t.ID, t)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertos
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev entity.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Event+":"+ev.Table)
	}
	return out
}

type fakeIndex struct {
	ids     []string
	err     error
	indexed []string
	removed []string
}

func (f *fakeIndex) Index(_ context.Context, products ...*entity.Product) error {
	for _, p := range products {
		f.indexed = append(f.indexed, p.ID)
	}
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string, int) ([]string, error) {
	return f.ids, f.err
}

var errIndexDown = errors.New("index down")

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantA = "t-a"
	tenantB = "t-b"
	storeN  = "s-norte"
	storeS  = "s-sur"
)

var (
	admin   = &scope.User{ID: "u-admin", Role: entity.RoleBusinessAdmin, TenantID: tenantA}
	manager = &scope.User{ID: "u-man", Role: entity.RoleManager, TenantID: tenantA, StoreID: storeN, Floor: 2}
	seller  = &scope.User{ID: "u-sell", Role: entity.RoleInhouseSales, TenantID: tenantA, StoreID: storeN}
	other   = &scope.User{ID: "u-other", Role: entity.RoleBusinessAdmin, TenantID: tenantB}
	mkt     = &scope.User{ID: "u-mkt", Role: entity.RoleMarketing, TenantID: tenantA}
)

func strp(s string) *string { return &s }

type fakeTenants map[string]*entity.Tenant

func (f fakeTenants) Create(context.Context, *entity.Tenant) error { return nil }
func (f fakeTenants) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	return f[id], nil
}
func (f fakeTenants) GetBySlug(context.Context, string) (*entity.Tenant, error) { return nil, nil }
func (f fakeTenants) List(context.Context, int, int) ([]*entity.Tenant, error) { return nil, nil }

type fakeStores map[string]*entity.Store

func (f fakeStores) Create(context.Context, *entity.Store) error { return nil }
func (f fakeStores) GetByID(_ context.Context, id string) (*entity.Store, error) {
	return f[id], nil
}
func (f fakeStores) ListByTenant(context.Context, string) ([]*entity.Store, error) { return nil, nil }

type fakeReceipts struct{ tenant string }

func (f *fakeReceipts) RenderReceipt(_ context.Context, _ *entity.Order, t *entity.Tenant, _ *entity.Store) ([]byte, error) {
	f.tenant = t.Name
	return []byte("%PDF-fake"), nil
}
