package repository

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (catálogo).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByTenantAndSKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}
