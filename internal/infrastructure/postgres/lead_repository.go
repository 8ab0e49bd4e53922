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

var _ repository.LeadRepository = (*LeadRepo)(nil)

type LeadRepo struct {
	q Querier
}

func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, tenant_id, store_id, name, phone, email, source, stage, estimated_value,
	assigned_to, created_by, created_at, updated_at`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.TenantID, &l.StoreID, &l.Name, &l.Phone, &l.Email, &l.Source, &l.Stage,
		&l.EstimatedValue, &l.AssignedTo, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.TenantID, l.StoreID, l.Name, l.Phone, l.Email, l.Source, l.Stage,
		l.EstimatedValue, l.AssignedTo, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// List Status filtra por etapa del pipeline.
func (r *LeadRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Lead, error) {
	var c conds
	c.common(f, "", "stage", "created_at")
	if f.Search != "" {
		c.add("(name ILIKE ? OR phone ILIKE ? OR email ILIKE ?)", likePattern(f.Search))
	}
	query := `SELECT ` + leadColumns + ` FROM leads` + c.where() + ` ORDER BY created_at DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LeadRepo) UpdateStage(ctx context.Context, l *entity.Lead) error {
	tag, err := r.q.Exec(ctx, `UPDATE leads SET stage = $2, updated_at = $3 WHERE id = $1`,
		l.ID, l.Stage, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
