package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// AppointmentRepository persistencia de citas. List filtra From/To sobre scheduled_at.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Appointment, error)
	Update(ctx context.Context, a *entity.Appointment) error
}
