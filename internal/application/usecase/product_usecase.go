package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

var validTaxRates = []decimal.Decimal{decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(19)}

// ProductUseCase catálogo de piezas. El catálogo es del tenant: todos sus usuarios lo ven.
// Si hay índice de búsqueda se mantiene sincronizado después de cada escritura.
type ProductUseCase struct {
	repo  repository.ProductRepository
	index ports.CatalogIndex
	notifier
}

// NewProductUseCase index puede ser nil (búsqueda por ILIKE).
func NewProductUseCase(repo repository.ProductRepository, index ports.CatalogIndex, pub ports.ChangePublisher, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, index: index, notifier: notifier{pub: pub, log: log}}
}

// List catálogo del tenant. status filtra por categoría.
func (uc *ProductUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.ProductResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	f := pagedFilter(user, q)
	if f.Search != "" && uc.index != nil && user.TenantID != "" {
		if items, ok := uc.searchIndex(ctx, user.TenantID, f.Search, f.Limit); ok {
			return toProductList(items), nil
		}
	}
	items, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toProductList(items), nil
}

// searchIndex false si el índice falló y hay que caer a Postgres.
func (uc *ProductUseCase) searchIndex(ctx context.Context, tenantID, query string, limit int) ([]*entity.Product, bool) {
	ids, err := uc.index.Search(ctx, tenantID, query, limit)
	if err != nil {
		uc.log.Warn().Err(err).Msg("búsqueda en índice fallida, usando base de datos")
		return nil, false
	}
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, false
		}
		// El índice puede ir un paso atrás de la base.
		if p == nil || p.TenantID != tenantID {
			continue
		}
		out = append(out, p)
	}
	return out, true
}

// GetByID un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, user *scope.User, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	res := toProductResponse(p)
	return &res, nil
}

func (uc *ProductUseCase) load(ctx context.Context, user *scope.User, id string) (*entity.Product, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (user.TenantID != "" && p.TenantID != user.TenantID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create alta de pieza. SKU único por tenant; IVA 0, 5 o 19.
func (uc *ProductUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" || in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !validTaxRate(in.TaxRate) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByTenantAndSKU(ctx, user.TenantID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    user.TenantID,
		SKU:         sku,
		Name:        name,
		Description: in.Description,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Metal:       strings.ToLower(strings.TrimSpace(in.Metal)),
		Purity:      strings.TrimSpace(in.Purity),
		WeightGrams: in.WeightGrams,
		Price:       in.Price,
		TaxRate:     in.TaxRate,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.reindex(ctx, p)
	uc.notify(ctx, entity.EventInsert, TableProducts, p.ID, p.TenantID)
	res := toProductResponse(p)
	return &res, nil
}

// Update modificación parcial.
func (uc *ProductUseCase) Update(ctx context.Context, user *scope.User, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Metal != nil {
		p.Metal = strings.ToLower(strings.TrimSpace(*in.Metal))
	}
	if in.Purity != nil {
		p.Purity = strings.TrimSpace(*in.Purity)
	}
	if in.WeightGrams != nil {
		p.WeightGrams = *in.WeightGrams
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.TaxRate != nil {
		if !validTaxRate(*in.TaxRate) {
			return nil, domain.ErrInvalidInput
		}
		p.TaxRate = *in.TaxRate
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.Stock = *in.Stock
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.reindex(ctx, p)
	uc.notify(ctx, entity.EventUpdate, TableProducts, p.ID, p.TenantID)
	res := toProductResponse(p)
	return &res, nil
}

// Delete baja de pieza; las líneas de pedido históricas conservan su descripción.
func (uc *ProductUseCase) Delete(ctx context.Context, user *scope.User, id string) error {
	p, err := uc.load(ctx, user, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if uc.index != nil {
		if err := uc.index.Remove(ctx, p.ID); err != nil {
			uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo quitar del índice")
		}
	}
	uc.notify(ctx, entity.EventDelete, TableProducts, p.ID, p.TenantID)
	return nil
}

// Reindex vuelca el catálogo completo del tenant al índice. Devuelve cuántos se enviaron.
func (uc *ProductUseCase) Reindex(ctx context.Context, tenantID string) (int, error) {
	if uc.index == nil {
		return 0, nil
	}
	const page = 500
	total := 0
	for offset := 0; ; offset += page {
		items, err := uc.repo.List(ctx, repository.ListFilter{TenantID: tenantID, Limit: page, Offset: offset})
		if err != nil {
			return total, err
		}
		if len(items) == 0 {
			return total, nil
		}
		if err := uc.index.Index(ctx, items...); err != nil {
			return total, err
		}
		total += len(items)
		if len(items) < page {
			return total, nil
		}
	}
}

func (uc *ProductUseCase) reindex(ctx context.Context, p *entity.Product) {
	if uc.index == nil {
		return
	}
	if err := uc.index.Index(ctx, p); err != nil {
		uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo indexar")
	}
}

func validTaxRate(rate decimal.Decimal) bool {
	for _, r := range validTaxRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

func toProductList(items []*entity.Product) *dto.ListResponse[dto.ProductResponse] {
	out := make([]dto.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return dto.NewListResponse(out)
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Metal:       p.Metal,
		Purity:      p.Purity,
		WeightGrams: p.WeightGrams,
		Price:       p.Price,
		TaxRate:     p.TaxRate,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
