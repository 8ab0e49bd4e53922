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

// CustomerUseCase CRUD de clientes filtrado por alcance.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	notifier
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, pub ports.ChangePublisher, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, notifier: notifier{pub: pub, log: log}}
}

// List clientes del tenant visibles para el usuario.
func (uc *CustomerUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.repo.List(ctx, listFilter(user, q))
	if err != nil {
		return nil, err
	}
	items, total := paginate(user, items, customerAttrs, scope.Policy{}, q)
	out := make([]dto.CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCustomerResponse(c))
	}
	return dto.NewPagedResponse(out, total), nil
}

// GetByID un cliente; ErrNotFound si no existe o no es visible.
func (uc *CustomerUseCase) GetByID(ctx context.Context, user *scope.User, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	res := toCustomerResponse(c)
	return &res, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, user *scope.User, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(user, customerAttrs(c)); err != nil {
		return nil, err
	}
	return c, nil
}

// Create alta de cliente. Estado por defecto active.
func (uc *CustomerUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = entity.CustomerActive
	}
	if !entity.CustomerTransitions.Known(status) {
		return nil, domain.ErrUnknownStatus
	}
	birthday, err := parseDay(in.Birthday)
	if err != nil {
		return nil, err
	}
	anniversary, err := parseDay(in.Anniversary)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Customer{
		ID:          uuid.New().String(),
		TenantID:    user.TenantID,
		StoreID:     defaultStore(user, in.StoreID),
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Status:      status,
		AssignedTo:  defaultAssignee(user, in.AssignedTo),
		CreatedBy:   user.ID,
		Birthday:    birthday,
		Anniversary: anniversary,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableCustomers, c.ID, c.TenantID)
	res := toCustomerResponse(c)
	return &res, nil
}

// Update modificación parcial. El estado de un cliente puede pasar libremente entre los conocidos.
func (uc *CustomerUseCase) Update(ctx context.Context, user *scope.User, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*in.Status))
		if status != c.Status {
			if err := entity.CustomerTransitions.Check(c.Status, status); err != nil {
				return nil, err
			}
			c.Status = status
		}
	}
	if in.StoreID != nil {
		c.StoreID = in.StoreID
	}
	if in.AssignedTo != nil {
		c.AssignedTo = in.AssignedTo
	}
	if in.Birthday != nil {
		if c.Birthday, err = parseDay(in.Birthday); err != nil {
			return nil, err
		}
	}
	if in.Anniversary != nil {
		if c.Anniversary, err = parseDay(in.Anniversary); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableCustomers, c.ID, c.TenantID)
	res := toCustomerResponse(c)
	return &res, nil
}

// Delete baja física. Citas, pedidos y tickets conservan el nombre denormalizado.
func (uc *CustomerUseCase) Delete(ctx context.Context, user *scope.User, id string) error {
	c, err := uc.load(ctx, user, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	uc.notify(ctx, entity.EventDelete, TableCustomers, c.ID, c.TenantID)
	return nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Status:      c.Status,
		AssignedTo:  c.AssignedTo,
		CreatedBy:   c.CreatedBy,
		Birthday:    c.Birthday,
		Anniversary: c.Anniversary,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
