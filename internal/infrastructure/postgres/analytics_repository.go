package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetTopProducts ranking por ingreso de línea (sin impuestos). Las piezas a medida sin SKU no entran.
func (r *AnalyticsRepo) GetTopProducts(
	ctx context.Context,
	tenantID string,
	from, to time.Time,
	limit int,
) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(i.quantity)     AS units_sold,
	    SUM(i.line_total)   AS total_revenue
	FROM order_items i
	JOIN orders   o ON o.id = i.order_id
	JOIN products p ON p.id = i.product_id
	WHERE o.tenant_id  = $1
	  AND o.created_at >= $2 AND o.created_at < $3
	  AND o.status     <> 'cancelled'
	GROUP BY p.id, p.sku, p.name
	ORDER BY total_revenue DESC
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, tenantID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	results := make([]repository.TopProductResult, 0, limit)
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.UnitsSold, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	return results, nil
}

// GetRevenue usa COALESCE para devolver cero en períodos sin pedidos.
func (r *AnalyticsRepo) GetRevenue(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total), 0)
	FROM orders
	WHERE tenant_id  = $1
	  AND created_at >= $2 AND created_at < $3
	  AND status     <> 'cancelled'`

	var revenue decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, tenantID, from, to).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetRevenue: %w", err)
	}
	return revenue, nil
}
