package screens

import (
	"time"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// CustomerRow fila de la cartera de clientes.
type CustomerRow struct {
	Meta
	Name     string
	Email    string
	Phone    string
	Status   string
	Birthday livelist.Date
}

func NormalizeCustomer(f livelist.Fields) CustomerRow {
	return CustomerRow{
		Meta:     metaFrom(f, "customer"),
		Name:     f.StringOr(UnknownCustomer, "name", "full_name"),
		Email:    f.String("email"),
		Phone:    f.String("phone", "mobile"),
		Status:   status(f, entity.CustomerActive, "status"),
		Birthday: f.Date("birthday", "date_of_birth"),
	}
}

// Customers pantalla de clientes.
var Customers = Definition[CustomerRow]{
	Table:     "customers",
	Path:      "customers",
	Normalize: NormalizeCustomer,
}

// CustomerSummary tarjetas de clientes.
type CustomerSummary struct {
	Total        int
	ByStatus     map[string]int
	NewThisMonth int
	VIPShare     float64
}

func SummarizeCustomers(items []CustomerRow, now time.Time) CustomerSummary {
	by := livelist.CountByStatus(items, func(c CustomerRow) string { return c.Status })
	return CustomerSummary{
		Total:        len(items),
		ByStatus:     by,
		NewThisMonth: livelist.CountInWindow(items, func(c CustomerRow) livelist.Date { return c.CreatedAt }, livelist.WindowThisMonth, now),
		VIPShare:     livelist.Percentage(by[entity.CustomerVIP], len(items)),
	}
}

// SearchCustomers por nombre, email o teléfono.
func SearchCustomers(items []CustomerRow, term string) []CustomerRow {
	return livelist.Search(items, term, func(c CustomerRow) []string {
		return []string{c.Name, c.Email, c.Phone}
	})
}
