package screens

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// OrderRow fila del listado de pedidos.
type OrderRow struct {
	Meta
	Number       string
	CustomerName string
	Status       string
	Total        decimal.Decimal
	DeliveryDate livelist.Date
}

func NormalizeOrder(f livelist.Fields) OrderRow {
	return OrderRow{
		Meta:         metaFrom(f, "order"),
		Number:       f.String("number", "order_number"),
		CustomerName: f.StringOr(UnknownCustomer, "customer_name", "customer.name"),
		Status:       status(f, entity.OrderPending, "status"),
		Total:        f.Decimal("total"),
		DeliveryDate: f.Date("delivery_date"),
	}
}

// Orders pantalla de pedidos.
var Orders = Definition[OrderRow]{
	Table:     "orders",
	Path:      "orders",
	Normalize: NormalizeOrder,
	Action:    "status",
	Field:     "status",
}

// OrderSummary tarjetas de pedidos. Revenue excluye cancelados.
type OrderSummary struct {
	Total     int
	ByStatus  map[string]int
	Revenue   decimal.Decimal
	ThisMonth int
	DueToday  int
}

func SummarizeOrders(items []OrderRow, now time.Time) OrderSummary {
	live := make([]OrderRow, 0, len(items))
	for _, o := range items {
		if o.Status != entity.OrderCancelled {
			live = append(live, o)
		}
	}
	return OrderSummary{
		Total:     len(items),
		ByStatus:  livelist.CountByStatus(items, func(o OrderRow) string { return o.Status }),
		Revenue:   livelist.SumDecimal(live, func(o OrderRow) decimal.Decimal { return o.Total }),
		ThisMonth: livelist.CountInWindow(items, func(o OrderRow) livelist.Date { return o.CreatedAt }, livelist.WindowThisMonth, now),
		DueToday:  livelist.CountInWindow(live, func(o OrderRow) livelist.Date { return o.DeliveryDate }, livelist.WindowToday, now),
	}
}
