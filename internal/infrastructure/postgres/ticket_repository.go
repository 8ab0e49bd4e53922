package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

type TicketRepo struct {
	q Querier
}

func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, tenant_id, store_id, customer_id, subject, description, priority, status,
	assigned_to, created_by, resolved_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(&t.ID, &t.TenantID, &t.StoreID, &t.CustomerID, &t.Subject, &t.Description, &t.Priority,
		&t.Status, &t.AssignedTo, &t.CreatedBy, &t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.TenantID, t.StoreID, t.CustomerID, t.Subject, t.Description, t.Priority, t.Status,
		t.AssignedTo, t.CreatedBy, t.ResolvedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Ticket, error) {
	var c conds
	c.common(f, "", "status", "created_at")
	if f.Search != "" {
		c.add("(subject ILIKE ? OR description ILIKE ?)", likePattern(f.Search))
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets` + c.where() + ` ORDER BY created_at DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, t *entity.Ticket) error {
	tag, err := r.q.Exec(ctx, `UPDATE tickets SET status = $2, resolved_at = $3, updated_at = $4 WHERE id = $1`,
		t.ID, t.Status, t.ResolvedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
