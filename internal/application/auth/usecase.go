package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/pkg/jwt"
	"github.com/jhoicas/joyeria-crm/pkg/textnorm"
)

const minPasswordLength = 8

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de joyería y login.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	storeRepo  repository.StoreRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, storeRepo repository.StoreRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tenantRepo: tenantRepo, storeRepo: storeRepo, jwtCfg: jwtCfg}
}

// Register crea el tenant, su primera tienda (si viene store_name) y el business_admin,
// y devuelve la sesión ya iniciada.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	business := strings.TrimSpace(in.BusinessName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if business == "" || email == "" || len(in.Password) < minPasswordLength {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
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
	slug, err := uc.uniqueSlug(ctx, business)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      business,
		Slug:      slug,
		Plan:      "basic",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	var storeID *string
	if name := strings.TrimSpace(in.StoreName); name != "" {
		store := &entity.Store{
			ID:        uuid.New().String(),
			TenantID:  tenant.ID,
			Name:      name,
			City:      strings.TrimSpace(in.City),
			Floors:    1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.storeRepo.Create(ctx, store); err != nil {
			return nil, err
		}
		storeID = &store.ID
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		StoreID:      storeID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleBusinessAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.session(user)
}

// uniqueSlug "Joyería Lúa" -> "joyeria-lua"; si ya existe agrega un sufijo corto.
func (uc *AuthUseCase) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := strings.Trim(nonSlug.ReplaceAllString(textnorm.Fold(name), "-"), "-")
	if base == "" {
		base = "joyeria"
	}
	slug := base
	for i := 0; i < 5; i++ {
		t, err := uc.tenantRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if t == nil {
			return slug, nil
		}
		slug = base + "-" + uuid.New().String()[:6]
	}
	return "", domain.ErrDuplicate
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return uc.session(user)
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.LoginResponse, error) {
	id := jwt.Identity{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		Floor:    user.Floor,
	}
	if user.StoreID != nil {
		id.StoreID = *user.StoreID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, id, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: usecase.ToUserResponse(user)}, nil
}
