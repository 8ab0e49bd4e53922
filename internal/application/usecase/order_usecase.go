package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

var hundred = decimal.NewFromInt(100)

// OrderDeps dependencias de OrderUseCase.
type OrderDeps struct {
	Orders    repository.OrderRepository
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Tenants   repository.TenantRepository
	Stores    repository.StoreRepository
	Receipts  ports.ReceiptRenderer
	Publisher ports.ChangePublisher
	Logger    zerolog.Logger
}

// OrderUseCase pedidos: alta con cálculo de totales, cambios de estado y comprobante PDF.
type OrderUseCase struct {
	deps OrderDeps
	notifier
	now func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(deps OrderDeps) *OrderUseCase {
	return &OrderUseCase{
		deps:     deps,
		notifier: notifier{pub: deps.Publisher, log: deps.Logger},
		now:      time.Now,
	}
}

// List pedidos visibles, sin líneas.
func (uc *OrderUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.OrderResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.deps.Orders.List(ctx, listFilter(user, q))
	if err != nil {
		return nil, err
	}
	items, total := paginate(user, items, orderAttrs, scope.Policy{}, q)
	out := make([]dto.OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, toOrderResponse(o))
	}
	return dto.NewPagedResponse(out, total), nil
}

// GetByID pedido con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, user *scope.User, id string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	res := toOrderResponse(o)
	return &res, nil
}

func (uc *OrderUseCase) load(ctx context.Context, user *scope.User, id string) (*entity.Order, error) {
	o, err := uc.deps.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(user, orderAttrs(o)); err != nil {
		return nil, err
	}
	return o, nil
}

// Create registra un pedido en estado pending. Las líneas con product_id toman
// descripción, precio e IVA del catálogo salvo que vengan explícitos.
func (uc *OrderUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.deps.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.TenantID != user.TenantID {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	o := &entity.Order{
		ID:           uuid.New().String(),
		TenantID:     user.TenantID,
		StoreID:      defaultStore(user, in.StoreID),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Number:       orderNumber(now),
		Status:       entity.OrderPending,
		AssignedTo:   defaultAssignee(user, in.AssignedTo),
		CreatedBy:    user.ID,
		DeliveryDate: in.DeliveryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, it := range in.Items {
		item, err := uc.buildItem(ctx, user.TenantID, o.ID, it)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	computeTotals(o)

	if err := uc.deps.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableOrders, o.ID, o.TenantID)
	res := toOrderResponse(o)
	return &res, nil
}

func (uc *OrderUseCase) buildItem(ctx context.Context, tenantID, orderID string, in dto.OrderItemRequest) (entity.OrderItem, error) {
	if in.Quantity <= 0 {
		return entity.OrderItem{}, domain.ErrInvalidInput
	}
	item := entity.OrderItem{
		ID:          uuid.New().String(),
		OrderID:     orderID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		TaxRate:     decimal.Zero,
	}
	if in.ProductID != nil && *in.ProductID != "" {
		p, err := uc.deps.Products.GetByID(ctx, *in.ProductID)
		if err != nil {
			return entity.OrderItem{}, err
		}
		if p == nil || p.TenantID != tenantID {
			return entity.OrderItem{}, domain.ErrInvalidInput
		}
		item.ProductID = &p.ID
		if item.Description == "" {
			item.Description = p.Name
		}
		item.UnitPrice = p.Price
		item.TaxRate = p.TaxRate
	} else if in.UnitPrice == nil || item.Description == "" {
		return entity.OrderItem{}, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.TaxRate != nil {
		item.TaxRate = *in.TaxRate
	}
	if item.UnitPrice.IsNegative() || item.TaxRate.IsNegative() {
		return entity.OrderItem{}, domain.ErrInvalidInput
	}
	item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return item, nil
}

// computeTotals subtotal = suma de líneas; IVA por línea redondeado a 2 decimales.
func computeTotals(o *entity.Order) {
	sub, tax := decimal.Zero, decimal.Zero
	for _, it := range o.Items {
		sub = sub.Add(it.LineTotal)
		tax = tax.Add(it.LineTotal.Mul(it.TaxRate).Div(hundred).Round(2))
	}
	o.Subtotal = sub
	o.TaxTotal = tax
	o.Total = sub.Add(tax)
}

// orderNumber ORD-AAAAMMDD-XXXX con sufijo aleatorio.
func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Transition cambia el estado validando contra OrderTransitions.
func (uc *OrderUseCase) Transition(ctx context.Context, user *scope.User, id, to string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if err := entity.OrderTransitions.Check(o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to
	o.UpdatedAt = uc.now()
	if err := uc.deps.Orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableOrders, o.ID, o.TenantID)
	res := toOrderResponse(o)
	return &res, nil
}

// Receipt PDF del pedido. Devuelve el contenido y el nombre de archivo sugerido.
func (uc *OrderUseCase) Receipt(ctx context.Context, user *scope.User, id string) ([]byte, string, error) {
	if uc.deps.Receipts == nil {
		return nil, "", fmt.Errorf("receipt renderer no configurado")
	}
	o, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, "", err
	}
	tenant, err := uc.deps.Tenants.GetByID(ctx, o.TenantID)
	if err != nil {
		return nil, "", err
	}
	if tenant == nil {
		return nil, "", domain.ErrNotFound
	}
	var store *entity.Store
	if o.StoreID != nil {
		if store, err = uc.deps.Stores.GetByID(ctx, *o.StoreID); err != nil {
			return nil, "", err
		}
	}
	pdf, err := uc.deps.Receipts.RenderReceipt(ctx, o, tenant, store)
	if err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return pdf, o.Number + ".pdf", nil
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	res := dto.OrderResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		StoreID:      o.StoreID,
		Number:       o.Number,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Subtotal:     o.Subtotal,
		TaxTotal:     o.TaxTotal,
		Total:        o.Total,
		AssignedTo:   o.AssignedTo,
		CreatedBy:    o.CreatedBy,
		DeliveryDate: o.DeliveryDate,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		})
	}
	return res
}
