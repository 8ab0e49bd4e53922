package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Order.
const (
	OrderPending      = "pending"
	OrderConfirmed    = "confirmed"
	OrderInProduction = "in_production"
	OrderReady        = "ready"
	OrderDelivered    = "delivered"
	OrderCancelled    = "cancelled"
)

// OrderTransitions delivered y cancelled son terminales; una pieza lista ya no se cancela.
var OrderTransitions = Transitions{
	OrderPending:      {OrderConfirmed, OrderCancelled},
	OrderConfirmed:    {OrderInProduction, OrderReady, OrderCancelled},
	OrderInProduction: {OrderReady, OrderCancelled},
	OrderReady:        {OrderDelivered},
	OrderDelivered:    nil,
	OrderCancelled:    nil,
}

// Order pedido de un cliente. Los totales se calculan en el use case a partir de Items.
type Order struct {
	ID           string
	TenantID     string
	StoreID      *string
	CustomerID   string
	CustomerName string
	Number       string // ej. "ORD-20260118-0042"
	Status       string
	Items        []OrderItem
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	Total        decimal.Decimal
	AssignedTo   *string
	CreatedBy    string
	DeliveryDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem línea de pedido.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   *string // nil = pieza a medida sin SKU
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje, ej. 19
	LineTotal   decimal.Decimal // sin impuestos
}
