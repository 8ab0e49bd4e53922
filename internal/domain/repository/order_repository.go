package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// OrderRepository persistencia de pedidos. Create guarda cabecera y líneas en una sola transacción.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error) // incluye Items
	List(ctx context.Context, f ListFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, o *entity.Order) error
}
