package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

const minPasswordLength = 8

// TeamUseCase administración de miembros del equipo de un tenant.
type TeamUseCase struct {
	repo repository.UserRepository
	notifier
}

// NewTeamUseCase construye el caso de uso con el puerto de persistencia.
func NewTeamUseCase(repo repository.UserRepository, pub ports.ChangePublisher, log zerolog.Logger) *TeamUseCase {
	return &TeamUseCase{repo: repo, notifier: notifier{pub: pub, log: log}}
}

// List miembros del tenant. Un manager solo ve los de su tienda.
func (uc *TeamUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	f := pagedFilter(user, q)
	if user.Role == entity.RoleManager && user.StoreID != "" {
		f.StoreID = user.StoreID
	}
	users, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return dto.NewListResponse(out), nil
}

// Create alta de un miembro. No se pueden crear platform_admin desde un tenant.
func (uc *TeamUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if email == "" || len(in.Password) < minPasswordLength || !entity.ValidRole(role) || role == entity.RolePlatformAdmin || in.Floor < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     user.TenantID,
		StoreID:      in.StoreID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Floor:        in.Floor,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableUsers, u.ID, u.TenantID)
	res := ToUserResponse(u)
	return &res, nil
}

// Delete baja de un miembro del mismo tenant. Nadie se borra a sí mismo.
func (uc *TeamUseCase) Delete(ctx context.Context, user *scope.User, id string) error {
	if err := requireTenant(user); err != nil {
		return err
	}
	if id == user.ID {
		return domain.ErrConflict
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || u.TenantID != user.TenantID {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	uc.notify(ctx, entity.EventDelete, TableUsers, u.ID, u.TenantID)
	return nil
}

// ToUserResponse nunca expone el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Floor:     u.Floor,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
