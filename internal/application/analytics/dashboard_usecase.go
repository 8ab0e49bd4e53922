// Package analytics contiene el resumen del dashboard: cifras del usuario calculadas sobre
// listas ya filtradas por alcance, más el ranking del tenant para roles de gestión.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

const dashboardTopProducts = 5

// Lister lo cumplen los casos de uso de cada colección (ya aplican el Scope Resolver).
type Lister[T any] interface {
	List(ctx context.Context, user *scope.User, q dto.ListQuery) (*dto.ListResponse[T], error)
}

// Sources colecciones que alimentan el dashboard.
type Sources struct {
	Appointments Lister[dto.AppointmentResponse]
	Orders       Lister[dto.OrderResponse]
	Tickets      Lister[dto.TicketResponse]
	Leads        Lister[dto.LeadResponse]
	Analytics    repository.AnalyticsRepository
}

// DashboardUseCase genera el resumen del día, la semana y el mes en curso.
type DashboardUseCase struct {
	src Sources
	now func() time.Time
}

// NewDashboardUseCase now nil = time.Now.
func NewDashboardUseCase(src Sources, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{src: src, now: now}
}

var openTicketStates = map[string]bool{
	entity.TicketOpen: true, entity.TicketInProgress: true, entity.TicketWaiting: true,
}

// GetSummary consultas en paralelo; cualquier error aborta el resumen completo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, user *scope.User) (*dto.DashboardSummaryDTO, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	loc := now.Location()

	// ── Rangos ────────────────────────────────────────────────────────────────
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekday := (int(now.Weekday()) + 6) % 7 // lunes = 0
	weekStart := todayStart.AddDate(0, 0, -weekday)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Nanosecond)

	apptFrom, apptTo := monthStart, monthEnd
	if weekStart.Before(apptFrom) {
		apptFrom = weekStart
	}
	if weekEnd.After(apptTo) {
		apptTo = weekEnd
	}

	type listResult[T any] struct {
		items []T
		err   error
	}
	type topResult struct {
		top     []repository.TopProductResult
		revenue decimal.Decimal
		err     error
	}

	apptCh := make(chan listResult[dto.AppointmentResponse], 1)
	orderCh := make(chan listResult[dto.OrderResponse], 1)
	ticketCh := make(chan listResult[dto.TicketResponse], 1)
	leadCh := make(chan listResult[dto.LeadResponse], 1)
	topCh := make(chan topResult, 1)

	base := dto.ListQuery{All: true}
	go func() {
		q := base
		q.From, q.To = apptFrom.Format(time.RFC3339), apptTo.Format(time.RFC3339)
		res, err := uc.src.Appointments.List(ctx, user, q)
		apptCh <- listResult[dto.AppointmentResponse]{items: results(res), err: err}
	}()
	go func() {
		q := base
		q.From, q.To = monthStart.Format(time.RFC3339), monthEnd.Format(time.RFC3339)
		res, err := uc.src.Orders.List(ctx, user, q)
		orderCh <- listResult[dto.OrderResponse]{items: results(res), err: err}
	}()
	go func() {
		res, err := uc.src.Tickets.List(ctx, user, base)
		ticketCh <- listResult[dto.TicketResponse]{items: results(res), err: err}
	}()
	go func() {
		res, err := uc.src.Leads.List(ctx, user, base)
		leadCh <- listResult[dto.LeadResponse]{items: results(res), err: err}
	}()
	go func() {
		if !managementRole(user) || user.TenantID == "" || uc.src.Analytics == nil {
			topCh <- topResult{}
			return
		}
		top, err := uc.src.Analytics.GetTopProducts(ctx, user.TenantID, monthStart, monthEnd, dashboardTopProducts)
		if err != nil {
			topCh <- topResult{err: err}
			return
		}
		rev, err := uc.src.Analytics.GetRevenue(ctx, user.TenantID, monthStart, monthEnd)
		topCh <- topResult{top: top, revenue: rev, err: err}
	}()

	appts, orders, tickets, leads, top := <-apptCh, <-orderCh, <-ticketCh, <-leadCh, <-topCh

	if appts.err != nil {
		return nil, fmt.Errorf("dashboard: citas: %w", appts.err)
	}
	if orders.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", orders.err)
	}
	if tickets.err != nil {
		return nil, fmt.Errorf("dashboard: tickets: %w", tickets.err)
	}
	if leads.err != nil {
		return nil, fmt.Errorf("dashboard: leads: %w", leads.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: ranking: %w", top.err)
	}

	// ── Agregados ──────────────────────────────────────────────────────────────
	apptDate := func(a dto.AppointmentResponse) livelist.Date { return livelist.NewDate(a.AppointmentDate) }
	out := &dto.DashboardSummaryDTO{
		AppointmentsToday:     livelist.CountInWindow(appts.items, apptDate, livelist.WindowToday, now),
		AppointmentsThisWeek:  livelist.CountInWindow(appts.items, apptDate, livelist.WindowThisWeek, now),
		AppointmentsThisMonth: livelist.CountInWindow(appts.items, apptDate, livelist.WindowThisMonth, now),
		AppointmentsByStatus: livelist.CountByStatus(
			monthOnly(appts.items, apptDate, now),
			func(a dto.AppointmentResponse) string { return a.Status },
		),
		OrdersByStatus: livelist.CountByStatus(orders.items, func(o dto.OrderResponse) string { return o.Status }),
		MonthlyRevenue: livelist.SumDecimal(orders.items, func(o dto.OrderResponse) decimal.Decimal {
			if o.Status == entity.OrderCancelled {
				return decimal.Zero
			}
			return o.Total
		}).Round(2),
		LeadsByStage: livelist.CountByStatus(leads.items, func(l dto.LeadResponse) string { return l.Stage }),
		PipelineValue: livelist.SumDecimal(leads.items, func(l dto.LeadResponse) decimal.Decimal {
			if l.Stage == entity.LeadWon || l.Stage == entity.LeadLost {
				return decimal.Zero
			}
			return l.EstimatedValue
		}),
		TopProducts: make([]dto.TopProductDTO, 0, len(top.top)),
		DateLabel:   monthLabel(now),
	}
	for _, t := range tickets.items {
		if openTicketStates[t.Status] {
			out.OpenTickets++
		}
	}
	out.ConversionRate = livelist.Percentage(out.LeadsByStage[entity.LeadWon], len(leads.items))

	if managementRole(user) && user.TenantID != "" && uc.src.Analytics != nil {
		rev := top.revenue.Round(2)
		out.TenantRevenue = &rev
		for _, t := range top.top {
			out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
				ProductID:    t.ProductID,
				SKU:          t.SKU,
				Name:         t.Name,
				UnitsSold:    t.UnitsSold,
				TotalRevenue: t.TotalRevenue.Round(2),
			})
		}
	}
	return out, nil
}

func results[T any](res *dto.ListResponse[T]) []T {
	if res == nil {
		return nil
	}
	return res.Results
}

func monthOnly[T any](items []T, at func(T) livelist.Date, now time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if t, ok := at(it).Time(); ok && livelist.InWindow(t, livelist.WindowThisMonth, now) {
			out = append(out, it)
		}
	}
	return out
}

func managementRole(u *scope.User) bool {
	switch u.Role {
	case entity.RoleBusinessAdmin, entity.RoleManager, entity.RolePlatformAdmin:
		return true
	}
	return false
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
