package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo necesita el pool (no un Querier) porque Create abre su propia transacción.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderSelect = `
	SELECT id, tenant_id, store_id, COALESCE(customer_id::text, ''), customer_name, number, status,
	       subtotal, tax_total, total, assigned_to, created_by, delivery_date, created_at, updated_at
	FROM orders`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.TenantID, &o.StoreID, &o.CustomerID, &o.CustomerName, &o.Number, &o.Status,
		&o.Subtotal, &o.TaxTotal, &o.Total, &o.AssignedTo, &o.CreatedBy, &o.DeliveryDate,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta cabecera y líneas. Número repetido -> ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, tenant_id, store_id, customer_id, customer_name, number, status,
				subtotal, tax_total, total, assigned_to, created_by, delivery_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			o.ID, o.TenantID, o.StoreID, nullIfEmpty(o.CustomerID), o.CustomerName, o.Number, o.Status,
			o.Subtotal, o.TaxTotal, o.Total, o.AssignedTo, o.CreatedBy, o.DeliveryDate,
			o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}

		batch := &pgx.Batch{}
		for i, it := range o.Items {
			batch.Queue(`
				INSERT INTO order_items (id, order_id, position, product_id, description, quantity, unit_price, tax_rate, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				it.ID, o.ID, i, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.LineTotal,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range o.Items {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return br.Close()
	})
}

// GetByID pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, orderSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, description, quantity, unit_price, tax_rate, line_total
		FROM order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	o.Items = make([]entity.OrderItem, 0)
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// List pedidos más recientes primero (sin líneas).
func (r *OrderRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Order, error) {
	var c conds
	c.common(f, "", "status", "created_at")
	if f.Search != "" {
		c.add("(number ILIKE ? OR customer_name ILIKE ?)", likePattern(f.Search))
	}
	query := orderSelect + c.where() + ` ORDER BY created_at DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
