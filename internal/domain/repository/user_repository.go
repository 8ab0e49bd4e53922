package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (miembros del equipo).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f ListFilter) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
