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

var ticketPriorities = map[string]bool{"low": true, "medium": true, "high": true, "urgent": true}

// TicketUseCase soporte postventa (reparaciones, garantías).
type TicketUseCase struct {
	repo repository.TicketRepository
	notifier
}

func NewTicketUseCase(repo repository.TicketRepository, pub ports.ChangePublisher, log zerolog.Logger) *TicketUseCase {
	return &TicketUseCase{repo: repo, notifier: notifier{pub: pub, log: log}}
}

func (uc *TicketUseCase) List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[dto.TicketResponse], error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.repo.List(ctx, listFilter(user, q))
	if err != nil {
		return nil, err
	}
	items, total := paginate(user, items, ticketAttrs, scope.Policy{}, q)
	out := make([]dto.TicketResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTicketResponse(t))
	}
	return dto.NewPagedResponse(out, total), nil
}

// Create abre un ticket; prioridad por defecto medium.
func (uc *TicketUseCase) Create(ctx context.Context, user *scope.User, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	if err := requireTenant(user); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, domain.ErrInvalidInput
	}
	priority := strings.ToLower(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = "medium"
	}
	if !ticketPriorities[priority] {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	t := &entity.Ticket{
		ID:          uuid.New().String(),
		TenantID:    user.TenantID,
		StoreID:     defaultStore(user, in.StoreID),
		CustomerID:  in.CustomerID,
		Subject:     subject,
		Description: in.Description,
		Priority:    priority,
		Status:      entity.TicketOpen,
		AssignedTo:  defaultAssignee(user, in.AssignedTo),
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventInsert, TableTickets, t.ID, t.TenantID)
	res := toTicketResponse(t)
	return &res, nil
}

// Transition resolved marca resolved_at; reabrir lo limpia.
func (uc *TicketUseCase) Transition(ctx context.Context, user *scope.User, id, to string) (*dto.TicketResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(user, ticketAttrs(t)); err != nil {
		return nil, err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if err := entity.TicketTransitions.Check(t.Status, to); err != nil {
		return nil, err
	}
	now := time.Now()
	switch to {
	case entity.TicketResolved:
		t.ResolvedAt = &now
	case entity.TicketOpen, entity.TicketInProgress, entity.TicketWaiting:
		t.ResolvedAt = nil
	}
	t.Status = to
	t.UpdatedAt = now
	if err := uc.repo.UpdateStatus(ctx, t); err != nil {
		return nil, err
	}
	uc.notify(ctx, entity.EventUpdate, TableTickets, t.ID, t.TenantID)
	res := toTicketResponse(t)
	return &res, nil
}

func toTicketResponse(t *entity.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          t.ID,
		TenantID:    t.TenantID,
		StoreID:     t.StoreID,
		CustomerID:  t.CustomerID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		ResolvedAt:  t.ResolvedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
