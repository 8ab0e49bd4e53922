package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

type AppointmentRepo struct {
	q Querier
}

func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// customer_id queda NULL si se borra el cliente; customer_name se conserva.
const appointmentSelect = `
	SELECT id, tenant_id, store_id, floor, COALESCE(customer_id::text, ''), customer_name, purpose,
	       scheduled_at, duration_minutes, status, assigned_to, created_by, notes, created_at, updated_at
	FROM appointments`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.StoreID, &a.Floor, &a.CustomerID, &a.CustomerName, &a.Purpose,
		&a.ScheduledAt, &a.DurationMinutes, &a.Status, &a.AssignedTo, &a.CreatedBy, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO appointments (id, tenant_id, store_id, floor, customer_id, customer_name, purpose,
			scheduled_at, duration_minutes, status, assigned_to, created_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.ID, a.TenantID, a.StoreID, a.Floor, nullIfEmpty(a.CustomerID), a.CustomerName, a.Purpose,
		a.ScheduledAt, a.DurationMinutes, a.Status, a.AssignedTo, a.CreatedBy, a.Notes,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, appointmentSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// List agenda ordenada por fecha; From/To filtran scheduled_at.
func (r *AppointmentRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Appointment, error) {
	var c conds
	c.common(f, "", "status", "scheduled_at")
	if f.Search != "" {
		c.add("(customer_name ILIKE ? OR purpose ILIKE ?)", likePattern(f.Search))
	}
	query := appointmentSelect + c.where() + ` ORDER BY scheduled_at` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update guarda todos los campos editables, estado incluido.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	_, err := r.q.Exec(ctx, `
		UPDATE appointments SET store_id = $2, floor = $3, purpose = $4, scheduled_at = $5,
			duration_minutes = $6, status = $7, assigned_to = $8, notes = $9, updated_at = $10
		WHERE id = $1`,
		a.ID, a.StoreID, a.Floor, a.Purpose, a.ScheduledAt, a.DurationMinutes, a.Status,
		a.AssignedTo, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}
