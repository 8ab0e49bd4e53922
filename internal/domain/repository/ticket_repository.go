package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

type TicketRepository interface {
	Create(ctx context.Context, t *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Ticket, error)
	UpdateStatus(ctx context.Context, t *entity.Ticket) error
}

type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Lead, error)
	UpdateStage(ctx context.Context, l *entity.Lead) error
}
