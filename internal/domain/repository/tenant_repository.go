package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// TenantRepository persistencia de joyerías (tenants).
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
}

// StoreRepository persistencia de tiendas.
type StoreRepository interface {
	Create(ctx context.Context, s *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Store, error)
}
