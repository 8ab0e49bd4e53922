package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

// tenantPolicy tenants es recurso de plataforma: platform_admin los ve todos.
var tenantPolicy = scope.Policy{TenantLevel: true}

// TenantUseCase consulta de joyerías y administración de sus tiendas.
type TenantUseCase struct {
	tenants repository.TenantRepository
	stores  repository.StoreRepository
	notifier
}

func NewTenantUseCase(tenants repository.TenantRepository, stores repository.StoreRepository, pub ports.ChangePublisher, log zerolog.Logger) *TenantUseCase {
	return &TenantUseCase{tenants: tenants, stores: stores, notifier: notifier{pub: pub, log: log}}
}

// List tenants visibles: todos para platform_admin, el propio para business_admin.
func (uc *TenantUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.TenantResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	q.DefaultPage()
	var items []*entity.Tenant
	if user.Role == entity.RolePlatformAdmin {
		all, err := uc.tenants.List(ctx, q.Limit, q.Offset)
		if err != nil {
			return nil, err
		}
		items = all
	} else if user.TenantID != "" {
		t, err := uc.tenants.GetByID(ctx, user.TenantID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			items = append(items, t)
		}
	}
	items = resolve(user, items, func(t *entity.Tenant) scope.Attributes {
		return scope.Attributes{TenantID: t.ID, Kind: "tenant"}
	}, tenantPolicy)
	out := make([]dto.TenantResponse, 0, len(items))
	for _, t := range items {
		out = append(out, dto.TenantResponse{
			ID: t.ID, Name: t.Name, Slug: t.Slug, Plan: t.Plan, Status: t.Status, CreatedAt: t.CreatedAt,
		})
	}
	return dto.NewListResponse(out), nil
}

// ListStores tiendas del tenant del usuario.
func (uc *TenantUseCase) ListStores(ctx context.Context, user *scope.User) (*dto.ListResponse[dto.StoreResponse], error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	stores, err := uc.stores.ListByTenant(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, toStoreResponse(s))
	}
	return dto.NewListResponse(out), nil
}

// CreateStore alta de sucursal. Floors mínimo 1.
func (uc *TenantUseCase) CreateStore(ctx context.Context, user *scope.User, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Floors < 0 {
		return nil, domain.ErrInvalidInput
	}
	floors := in.Floors
	if floors == 0 {
		floors = 1
	}
	now := time.Now()
	s := &entity.Store{
		ID:        uuid.New().String(),
		TenantID:  user.TenantID,
		Name:      name,
		City:      strings.TrimSpace(in.City),
		Floors:    floors,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.stores.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableStores, s.ID, s.TenantID)
	res := toStoreResponse(s)
	return &res, nil
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{ID: s.ID, TenantID: s.TenantID, Name: s.Name, City: s.City, Floors: s.Floors}
}
