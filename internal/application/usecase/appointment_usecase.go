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

const defaultAppointmentMinutes = 30

// AppointmentUseCase agenda de citas en tienda.
type AppointmentUseCase struct {
	repo      repository.AppointmentRepository
	customers repository.CustomerRepository
	notifier
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(repo repository.AppointmentRepository, customers repository.CustomerRepository, pub ports.ChangePublisher, log zerolog.Logger) *AppointmentUseCase {
	return &AppointmentUseCase{repo: repo, customers: customers, notifier: notifier{pub: pub, log: log}}
}

// List citas visibles; from/to filtran sobre la fecha de la cita.
func (uc *AppointmentUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.AppointmentResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.repo.List(ctx, listFilter(user, q))
	if err != nil {
		return nil, err
	}
	items, total := paginate(user, items, appointmentAttrs, scope.Policy{}, q)
	out := make([]dto.AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(a))
	}
	return dto.NewPagedResponse(out, total), nil
}

func (uc *AppointmentUseCase) load(ctx context.Context, user *scope.User, id string) (*entity.Appointment, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(user, appointmentAttrs(a)); err != nil {
		return nil, err
	}
	return a, nil
}

// Create agenda una cita. Con customer_id el nombre se toma del cliente; sin él se acepta
// un walk-in con customer_name.
func (uc *AppointmentUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	if in.ScheduledAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	name := strings.TrimSpace(in.CustomerName)
	if in.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil || c.TenantID != user.TenantID {
			return nil, domain.ErrInvalidInput
		}
		name = c.Name
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = defaultAppointmentMinutes
	}
	floor := in.Floor
	if floor == 0 {
		floor = user.Floor
	}
	now := time.Now()
	a := &entity.Appointment{
		ID:              uuid.New().String(),
		TenantID:        user.TenantID,
		StoreID:         defaultStore(user, in.StoreID),
		Floor:           floor,
		CustomerID:      in.CustomerID,
		CustomerName:    name,
		Purpose:         strings.TrimSpace(in.Purpose),
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: duration,
		Status:          entity.AppointmentScheduled,
		AssignedTo:      defaultAssignee(user, in.AssignedTo),
		CreatedBy:       user.ID,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableAppointments, a.ID, a.TenantID)
	res := toAppointmentResponse(a)
	return &res, nil
}

// Update reprograma o corrige datos. Una cita cerrada no se modifica.
func (uc *AppointmentUseCase) Update(ctx context.Context, user *scope.User, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if len(entity.AppointmentTransitions.Allowed(a.Status)) == 0 {
		return nil, domain.ErrConflict
	}
	if in.Purpose != nil {
		a.Purpose = strings.TrimSpace(*in.Purpose)
	}
	if in.ScheduledAt != nil {
		if in.ScheduledAt.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		a.ScheduledAt = *in.ScheduledAt
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return nil, domain.ErrInvalidInput
		}
		a.DurationMinutes = *in.DurationMinutes
	}
	if in.StoreID != nil {
		a.StoreID = in.StoreID
	}
	if in.Floor != nil {
		a.Floor = *in.Floor
	}
	if in.AssignedTo != nil {
		a.AssignedTo = in.AssignedTo
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableAppointments, a.ID, a.TenantID)
	res := toAppointmentResponse(a)
	return &res, nil
}

// Transition cambia el estado validando contra AppointmentTransitions.
func (uc *AppointmentUseCase) Transition(ctx context.Context, user *scope.User, id, to string) (*dto.AppointmentResponse, error) {
	a, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if err := entity.AppointmentTransitions.Check(a.Status, to); err != nil {
		return nil, err
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableAppointments, a.ID, a.TenantID)
	res := toAppointmentResponse(a)
	return &res, nil
}

func toAppointmentResponse(a *entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		StoreID:         a.StoreID,
		Floor:           a.Floor,
		CustomerID:      a.CustomerID,
		CustomerName:    a.CustomerName,
		Purpose:         a.Purpose,
		AppointmentDate: a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		AssignedTo:      a.AssignedTo,
		CreatedBy:       a.CreatedBy,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
