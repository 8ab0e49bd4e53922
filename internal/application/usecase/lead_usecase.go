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

// LeadUseCase pipeline comercial. Los leads de origen campaign son visibles para marketing.
type LeadUseCase struct {
	repo repository.LeadRepository
	notifier
}

func NewLeadUseCase(repo repository.LeadRepository, pub ports.ChangePublisher, log zerolog.Logger) *LeadUseCase {
	return &LeadUseCase{repo: repo, notifier: notifier{pub: pub, log: log}}
}

func (uc *LeadUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.LeadResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.repo.List(ctx, listFilter(user, q))
	if err != nil {
		return nil, err
	}
	items, total := paginate(user, items, leadAttrs, scope.Policy{}, q)
	out := make([]dto.LeadResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toLeadResponse(l))
	}
	return dto.NewPagedResponse(out, total), nil
}

// Create nuevo lead en etapa new.
func (uc *LeadUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.EstimatedValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	source := strings.ToLower(strings.TrimSpace(in.Source))
	if source == "" {
		source = "walk_in"
	}
	now := time.Now()
	l := &entity.Lead{
		ID:             uuid.New().String(),
		TenantID:       user.TenantID,
		StoreID:        defaultStore(user, in.StoreID),
		Name:           name,
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Source:         source,
		Stage:          entity.LeadNew,
		EstimatedValue: in.EstimatedValue,
		AssignedTo:     defaultAssignee(user, in.AssignedTo),
		CreatedBy:      user.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableLeads, l.ID, l.TenantID)
	res := toLeadResponse(l)
	return &res, nil
}

// Transition mueve el lead de etapa según LeadTransitions.
func (uc *LeadUseCase) Transition(ctx context.Context, user *scope.User, id, to string) (*dto.LeadResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(user, leadAttrs(l)); err != nil {
		return nil, err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if err := entity.LeadTransitions.Check(l.Stage, to); err != nil {
		return nil, err
	}
	l.Stage = to
	l.UpdatedAt = time.Now()
	if err := uc.repo.UpdateStage(ctx, l); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableLeads, l.ID, l.TenantID)
	res := toLeadResponse(l)
	return &res, nil
}

func toLeadResponse(l *entity.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:             l.ID,
		TenantID:       l.TenantID,
		StoreID:        l.StoreID,
		Name:           l.Name,
		Phone:          l.Phone,
		Email:          l.Email,
		Source:         l.Source,
		Kind:           entity.LeadKind(l.Source),
		Stage:          l.Stage,
		EstimatedValue: l.EstimatedValue,
		AssignedTo:     l.AssignedTo,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
