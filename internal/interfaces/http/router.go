package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/joyeria-crm/internal/application/analytics"
	"github.com/jhoicas/joyeria-crm/internal/application/auth"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CustomerUC    *usecase.CustomerUseCase
	AppointmentUC *usecase.AppointmentUseCase
	OrderUC       *usecase.OrderUseCase
	ProductUC     *usecase.ProductUseCase
	TicketUC      *usecase.TicketUseCase
	LeadUC        *usecase.LeadUseCase
	TeamUC        *usecase.TeamUseCase
	TenantUC      *usecase.TenantUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	Changes       ChangeSubscriber
	Heartbeat     time.Duration
	JWTSecret     string
	Logger        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", Tracing())

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	admins := RequireRole(entity.RoleBusinessAdmin)
	management := RequireRole(entity.RoleBusinessAdmin, entity.RoleManager)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	appointments := protected.Group("/appointments")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Get("/", appointmentHandler.List)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Patch("/:id/status", appointmentHandler.Transition)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/status", orderHandler.Transition)

	// Catálogo: lectura para todos, escritura para gestión.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Post("/reindex", admins, productHandler.Reindex)
	products.Post("/", management, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", management, productHandler.Update)
	products.Delete("/:id", management, productHandler.Delete)

	tickets := protected.Group("/tickets")
	ticketHandler := NewTicketHandler(deps.TicketUC)
	tickets.Get("/", ticketHandler.List)
	tickets.Post("/", ticketHandler.Create)
	tickets.Patch("/:id/status", ticketHandler.Transition)

	leads := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Patch("/:id/stage", leadHandler.Stage)

	teamHandler := NewTeamHandler(deps.TeamUC, deps.TenantUC)
	team := protected.Group("/team")
	team.Get("/", management, teamHandler.List)
	team.Post("/", admins, teamHandler.Create)
	team.Delete("/:id", admins, teamHandler.Delete)

	protected.Get("/tenants", RequireRole(entity.RolePlatformAdmin, entity.RoleBusinessAdmin), teamHandler.Tenants)
	protected.Get("/stores", teamHandler.Stores)
	protected.Post("/stores", admins, teamHandler.CreateStore)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	realtimeHandler := NewRealtimeHandler(deps.Changes, deps.Heartbeat, deps.Logger)
	protected.Get("/realtime/:table", realtimeHandler.Stream)
}
