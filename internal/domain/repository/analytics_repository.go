package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult fila cruda del ranking de productos por ingreso.
type TopProductResult struct {
	ProductID    string
	SKU          string
	Name         string
	UnitsSold    int
	TotalRevenue decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura a nivel tenant. Las cifras por usuario
// (citas de hoy, pipeline propio) se calculan sobre listas ya filtradas por alcance.
type AnalyticsRepository interface {
	// GetTopProducts productos con más ingreso en el período, excluyendo pedidos cancelados.
	GetTopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]TopProductResult, error)
	// GetRevenue ingreso total del tenant en el período (pedidos no cancelados).
	GetRevenue(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error)
}
