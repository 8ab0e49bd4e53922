package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Las cifras de citas, pedidos, tickets y leads respetan el alcance del usuario;
// TenantRevenue y TopProducts son del tenant completo y solo se informan a roles de gestión.
type DashboardSummaryDTO struct {
	AppointmentsToday     int            `json:"appointments_today"`
	AppointmentsThisWeek  int            `json:"appointments_this_week"`
	AppointmentsThisMonth int            `json:"appointments_this_month"`
	AppointmentsByStatus  map[string]int `json:"appointments_by_status"`

	OrdersByStatus map[string]int  `json:"orders_by_status"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"` // pedidos visibles del mes, sin cancelados

	OpenTickets int `json:"open_tickets"`

	LeadsByStage   map[string]int  `json:"leads_by_stage"`
	PipelineValue  decimal.Decimal `json:"pipeline_value"`
	ConversionRate float64         `json:"conversion_rate"`

	TenantRevenue *decimal.Decimal `json:"tenant_revenue,omitempty"`
	TopProducts   []TopProductDTO  `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO pieza del ranking mensual.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitsSold    int             `json:"units_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
