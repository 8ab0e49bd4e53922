package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

var nop = zerolog.Nop()

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomer_CreateDefaultsAndScope(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerRepo()
	pub := &recordingPublisher{}
	uc := usecase.NewCustomerUseCase(repo, pub, nop)

	mine, err := uc.Create(ctx, seller, dto.CreateCustomerRequest{Name: "  Ana Gómez ", Email: "ANA@mail.co"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Gómez", mine.Name)
	assert.Equal(t, "ana@mail.co", mine.Email)
	assert.Equal(t, entity.CustomerActive, mine.Status)
	require.NotNil(t, mine.AssignedTo)
	assert.Equal(t, seller.ID, *mine.AssignedTo)
	require.NotNil(t, mine.StoreID)
	assert.Equal(t, storeN, *mine.StoreID)

	_, err = uc.Create(ctx, admin, dto.CreateCustomerRequest{Name: "Luis"})
	require.NoError(t, err)

	sellerView, err := uc.List(ctx, seller, dto.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, sellerView.Count)
	assert.Equal(t, mine.ID, sellerView.Results[0].ID)

	adminView, err := uc.List(ctx, admin, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, adminView.Count)

	otherView, err := uc.List(ctx, other, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, otherView.Count)
	assert.NotNil(t, otherView.Results)

	assert.Equal(t, []string{"insert:customers", "insert:customers"}, pub.tables())
}

// Un vendedor cuyo único cliente está más allá de la primera página del tenant lo ve igual.
func TestCustomer_ScopedRecordBeyondFirstPage(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerRepo()
	uc := usecase.NewCustomerUseCase(repo, nil, nop)

	for i := 0; i < 300; i++ {
		c := &entity.Customer{
			ID:        fmt.Sprintf("c-%03d", i),
			TenantID:  tenantA,
			Name:      fmt.Sprintf("Cliente %03d", i),
			Status:    entity.CustomerActive,
			CreatedBy: admin.ID,
		}
		if i == 250 {
			c.AssignedTo = strp(seller.ID)
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	res, err := uc.List(ctx, seller, dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "c-250", res.Results[0].ID)
	assert.Equal(t, 1, res.Count)

	// La página se corta sobre lo visible y count es el total.
	page, err := uc.List(ctx, admin, dto.ListQuery{Limit: 50, Offset: 280})
	require.NoError(t, err)
	assert.Len(t, page.Results, 20)
	assert.Equal(t, 300, page.Count)
	assert.Equal(t, "c-280", page.Results[0].ID)

	first, err := uc.List(ctx, admin, dto.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, first.Results, 200, "página por defecto")
	assert.Equal(t, 300, first.Count)

	past, err := uc.List(ctx, seller, dto.ListQuery{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, past.Results)
	assert.NotNil(t, past.Results)
	assert.Equal(t, 1, past.Count)
}

func TestCustomer_OtherTenantIsNotFound(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(newCustomerRepo(), nil, nop)
	c, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, other, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, other, c.ID), domain.ErrNotFound)
}

func TestCustomer_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(newCustomerRepo(), nil, nop)
	c, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	res, err := uc.Update(ctx, admin, c.ID, dto.UpdateCustomerRequest{Status: strp("VIP")})
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerVIP, res.Status)

	_, err = uc.Update(ctx, admin, c.ID, dto.UpdateCustomerRequest{Status: strp("gold")})
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	_, err = uc.Update(ctx, admin, c.ID, dto.UpdateCustomerRequest{Name: strp("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomer_Validation(t *testing.T) {
	uc := usecase.NewCustomerUseCase(newCustomerRepo(), nil, nop)
	_, err := uc.Create(context.Background(), admin, dto.CreateCustomerRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(context.Background(), nil, dto.CreateCustomerRequest{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCustomer_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errIndexDown}
	uc := usecase.NewCustomerUseCase(newCustomerRepo(), pub, nop)
	_, err := uc.Create(context.Background(), admin, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)
	assert.Len(t, pub.tables(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Citas
// ──────────────────────────────────────────────────────────────────────────────

func TestAppointment_CreateAndTransitions(t *testing.T) {
	ctx := context.Background()
	customers := newCustomerRepo()
	require.NoError(t, customers.Create(ctx, &entity.Customer{ID: "c1", TenantID: tenantA, Name: "Marta Ruiz"}))
	pub := &recordingPublisher{}
	uc := usecase.NewAppointmentUseCase(newAppointmentRepo(), customers, pub, nop)

	at := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	a, err := uc.Create(ctx, manager, dto.CreateAppointmentRequest{CustomerID: "c1", ScheduledAt: at, Purpose: "Prueba de anillo"})
	require.NoError(t, err)
	assert.Equal(t, "Marta Ruiz", a.CustomerName)
	assert.Equal(t, entity.AppointmentScheduled, a.Status)
	assert.Equal(t, 30, a.DurationMinutes)
	assert.Equal(t, 2, a.Floor)
	assert.Equal(t, at, a.AppointmentDate)

	_, err = uc.Transition(ctx, manager, a.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	res, err := uc.Transition(ctx, manager, a.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentConfirmed, res.Status)

	_, err = uc.Transition(ctx, manager, a.ID, "confirmed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Transition(ctx, manager, a.ID, "cancelled")
	require.NoError(t, err)
	_, err = uc.Update(ctx, manager, a.ID, dto.UpdateAppointmentRequest{Notes: strp("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, []string{"insert:appointments", "update:appointments", "update:appointments"}, pub.tables())
}

func TestAppointment_WalkInRequiresName(t *testing.T) {
	uc := usecase.NewAppointmentUseCase(newAppointmentRepo(), newCustomerRepo(), nil, nop)
	at := time.Now()
	_, err := uc.Create(context.Background(), admin, dto.CreateAppointmentRequest{ScheduledAt: at})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	a, err := uc.Create(context.Background(), admin, dto.CreateAppointmentRequest{ScheduledAt: at, CustomerName: "Walk-in"})
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", a.CustomerName)
}

func TestAppointment_ManagerSeesOwnStoreAndFloor(t *testing.T) {
	ctx := context.Background()
	repo := newAppointmentRepo()
	now := time.Now()
	for _, a := range []*entity.Appointment{
		{ID: "same-floor", TenantID: tenantA, StoreID: strp(storeN), Floor: 2, ScheduledAt: now, Status: "scheduled"},
		{ID: "other-floor", TenantID: tenantA, StoreID: strp(storeN), Floor: 3, ScheduledAt: now, Status: "scheduled"},
		{ID: "no-floor", TenantID: tenantA, StoreID: strp(storeN), ScheduledAt: now, Status: "scheduled"},
		{ID: "other-store", TenantID: tenantA, StoreID: strp(storeS), Floor: 2, ScheduledAt: now, Status: "scheduled"},
	} {
		require.NoError(t, repo.Create(ctx, a))
	}
	uc := usecase.NewAppointmentUseCase(repo, newCustomerRepo(), nil, nop)

	res, err := uc.List(ctx, manager, dto.ListQuery{})
	require.NoError(t, err)
	ids := make([]string, 0, res.Count)
	for _, a := range res.Results {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"same-floor", "no-floor"}, ids)

	_, err = uc.Transition(ctx, manager, "other-store", "confirmed")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

type orderFixture struct {
	uc       *usecase.OrderUseCase
	receipts *fakeReceipts
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	ctx := context.Background()
	customers := newCustomerRepo()
	require.NoError(t, customers.Create(ctx, &entity.Customer{ID: "c1", TenantID: tenantA, Name: "Ana"}))
	require.NoError(t, customers.Create(ctx, &entity.Customer{ID: "cx", TenantID: tenantB, Name: "Ajena"}))
	products := newProductRepo()
	require.NoError(t, products.Create(ctx, &entity.Product{
		ID: "p1", TenantID: tenantA, SKU: "AN-001", Name: "Anillo solitario",
		Price: decimal.NewFromInt(1000000), TaxRate: decimal.NewFromInt(19),
	}))
	receipts := &fakeReceipts{}
	uc := usecase.NewOrderUseCase(usecase.OrderDeps{
		Orders:    newOrderRepo(),
		Customers: customers,
		Products:  products,
		Tenants:   fakeTenants{tenantA: {ID: tenantA, Name: "Joyería Lúa"}},
		Stores:    fakeStores{},
		Receipts:  receipts,
		Logger:    nop,
	})
	return orderFixture{uc: uc, receipts: receipts}
}

func TestOrder_CreateComputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	price := decimal.RequireFromString("50000.50")
	o, err := f.uc.Create(context.Background(), seller, dto.CreateOrderRequest{
		CustomerID: "c1",
		Items: []dto.OrderItemRequest{
			{ProductID: strp("p1"), Quantity: 2},
			{Description: "Grabado", Quantity: 1, UnitPrice: &price},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(o.Number, "ORD-"))
	assert.Len(t, o.Number, len("ORD-20060102-ABCD"))
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, "Ana", o.CustomerName)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Anillo solitario", o.Items[0].Description)
	assert.Equal(t, "2000000", o.Items[0].LineTotal.String())
	assert.Equal(t, "2050000.5", o.Subtotal.String())
	assert.Equal(t, "380000", o.TaxTotal.String())
	assert.Equal(t, "2430000.5", o.Total.String())
}

func TestOrder_CreateValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, admin, dto.CreateOrderRequest{CustomerID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.uc.Create(ctx, admin, dto.CreateOrderRequest{
		CustomerID: "c1", Items: []dto.OrderItemRequest{{Description: "A medida", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pieza a medida sin precio")

	_, err = f.uc.Create(ctx, admin, dto.CreateOrderRequest{
		CustomerID: "cx", Items: []dto.OrderItemRequest{{ProductID: strp("p1"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cliente de otro tenant")
}

func TestOrder_TransitionAndReceipt(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, admin, dto.CreateOrderRequest{
		CustomerID: "c1", Items: []dto.OrderItemRequest{{ProductID: strp("p1"), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, admin, o.ID, "delivered")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	res, err := f.uc.Transition(ctx, admin, o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, res.Status)

	pdf, name, err := f.uc.Receipt(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, o.Number+".pdf", name)
	assert.Equal(t, "Joyería Lúa", f.receipts.tenant)

	_, _, err = f.uc.Receipt(ctx, other, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CreateValidatesAndIndexes(t *testing.T) {
	ctx := context.Background()
	idx := &fakeIndex{}
	uc := usecase.NewProductUseCase(newProductRepo(), idx, nil, nop)

	p, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: " an-001 ", Name: "Anillo", TaxRate: decimal.NewFromInt(19)})
	require.NoError(t, err)
	assert.Equal(t, "AN-001", p.SKU)
	assert.Equal(t, []string{p.ID}, idx.indexed)

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "AN-001", Name: "Otro", TaxRate: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "AN-002", Name: "Otro", TaxRate: decimal.NewFromInt(7)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(ctx, admin, p.ID))
	assert.Equal(t, []string{p.ID}, idx.removed)
}

func TestProduct_SearchUsesIndexThenFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()
	for _, p := range []*entity.Product{
		{ID: "p1", TenantID: tenantA, SKU: "A1", Name: "Anillo"},
		{ID: "p2", TenantID: tenantA, SKU: "C1", Name: "Cadena"},
		{ID: "p3", TenantID: tenantB, SKU: "A1", Name: "Anillo ajeno"},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}
	idx := &fakeIndex{ids: []string{"p2", "missing", "p3", "p1"}}
	uc := usecase.NewProductUseCase(repo, idx, nil, nop)

	res, err := uc.List(ctx, admin, dto.ListQuery{Search: "an"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "p2", res.Results[0].ID)
	assert.Equal(t, "p1", res.Results[1].ID)

	idx.err = errIndexDown
	res, err = uc.List(ctx, admin, dto.ListQuery{Search: "an"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count, "respaldo en la base, solo el tenant propio")
}

func TestProduct_Reindex(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p1", TenantID: tenantA}))
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p2", TenantID: tenantA}))
	idx := &fakeIndex{}
	n, err := usecase.NewProductUseCase(repo, idx, nil, nop).Reindex(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"p1", "p2"}, idx.indexed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Leads y tickets
// ──────────────────────────────────────────────────────────────────────────────

func TestLead_PipelineAndMarketingScope(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	uc := usecase.NewLeadUseCase(newLeadRepo(), pub, nop)

	walkIn, err := uc.Create(ctx, admin, dto.CreateLeadRequest{Name: "Pedro", EstimatedValue: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadNew, walkIn.Stage)
	assert.Equal(t, "walk_in", walkIn.Source)
	campaign, err := uc.Create(ctx, admin, dto.CreateLeadRequest{Name: "Sofía", Source: "Campaign"})
	require.NoError(t, err)

	res, err := uc.List(ctx, mkt, dto.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, campaign.ID, res.Results[0].ID)
	assert.Equal(t, entity.LeadKindCampaign, res.Results[0].Kind)
	assert.Equal(t, entity.LeadKindLead, walkIn.Kind)

	_, err = uc.Transition(ctx, admin, walkIn.ID, "won")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	moved, err := uc.Transition(ctx, admin, walkIn.ID, "contacted")
	require.NoError(t, err)
	assert.Equal(t, entity.LeadContacted, moved.Stage)

	assert.Equal(t, []string{"insert:leads", "insert:leads", "update:leads"}, pub.tables())
}

func TestTicket_ResolveAndReopen(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewTicketUseCase(newTicketRepo(), nil, nop)

	tk, err := uc.Create(ctx, seller, dto.CreateTicketRequest{Subject: "Broche suelto"})
	require.NoError(t, err)
	assert.Equal(t, "medium", tk.Priority)
	assert.Equal(t, entity.TicketOpen, tk.Status)

	_, err = uc.Create(ctx, seller, dto.CreateTicketRequest{Subject: "x", Priority: "critical"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Transition(ctx, seller, tk.ID, "in_progress")
	require.NoError(t, err)
	resolved, err := uc.Transition(ctx, seller, tk.ID, "resolved")
	require.NoError(t, err)
	assert.NotNil(t, resolved.ResolvedAt)
	reopened, err := uc.Transition(ctx, seller, tk.ID, "open")
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)
}
