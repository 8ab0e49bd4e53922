package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/joyeria-crm/internal/application/analytics"
	"github.com/jhoicas/joyeria-crm/internal/application/auth"
	"github.com/jhoicas/joyeria-crm/internal/application/ports"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
	infrapdf "github.com/jhoicas/joyeria-crm/internal/infrastructure/pdf"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/realtime"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/search"
	httpRouter "github.com/jhoicas/joyeria-crm/internal/interfaces/http"
	"github.com/jhoicas/joyeria-crm/pkg/config"
	"github.com/jhoicas/joyeria-crm/pkg/logger"
	"github.com/jhoicas/joyeria-crm/pkg/telemetry"
)

// changeBus publica y escucha cambios (RedisBus o LocalBus).
type changeBus interface {
	ports.ChangePublisher
	httpRouter.ChangeSubscriber
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, cfg.App.Name, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.Insecure, log.Component("telemetry"))

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Canal de cambios: Redis si responde; si no, bus en memoria (una sola instancia).
	var bus changeBus
	redisClient, err := realtime.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, usando bus en memoria")
		bus = realtime.NewLocalBus()
	} else {
		defer redisClient.Close()
		bus = realtime.NewRedisBus(redisClient, cfg.Redis.ChannelPrefix, log.Component("realtime"))
	}

	// Búsqueda de catálogo: opcional, con respaldo en PostgreSQL.
	var catalog ports.CatalogIndex
	if cfg.Search.MeiliURL != "" {
		meili := search.NewMeili(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, log.Component("search"))
		defer meili.Close()
		catalog = meili
	}

	tenantRepo := postgres.NewTenantRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	ucLog := log.Component("usecase")
	customerUC := usecase.NewCustomerUseCase(customerRepo, bus, ucLog)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, customerRepo, bus, ucLog)
	productUC := usecase.NewProductUseCase(productRepo, catalog, bus, ucLog)
	ticketUC := usecase.NewTicketUseCase(ticketRepo, bus, ucLog)
	leadUC := usecase.NewLeadUseCase(leadRepo, bus, ucLog)
	teamUC := usecase.NewTeamUseCase(userRepo, bus, ucLog)
	tenantUC := usecase.NewTenantUseCase(tenantRepo, storeRepo, bus, ucLog)

	// PDF: comprobante de pedido
	orderUC := usecase.NewOrderUseCase(usecase.OrderDeps{
		Orders:    orderRepo,
		Customers: customerRepo,
		Products:  productRepo,
		Tenants:   tenantRepo,
		Stores:    storeRepo,
		Receipts:  infrapdf.NewReceiptGenerator(),
		Publisher: bus,
		Logger:    ucLog,
	})

	dashboardUC := appanalytics.NewDashboardUseCase(appanalytics.Sources{
		Appointments: appointmentUC,
		Orders:       orderUC,
		Tickets:      ticketUC,
		Leads:        leadUC,
		Analytics:    analyticsRepo,
	}, nil)

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, storeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Sin WriteTimeout: cortaría los streams SSE de /api/realtime.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Joyería CRM API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": cfg.App.Name, "search": "postgres"}
		if err := pool.Ping(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["db"] = err.Error()
		}
		if m, ok := catalog.(*search.Meili); ok && m.Healthy() {
			status["search"] = "meilisearch"
		}
		return c.JSON(status)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CustomerUC:    customerUC,
		AppointmentUC: appointmentUC,
		OrderUC:       orderUC,
		ProductUC:     productUC,
		TicketUC:      ticketUC,
		LeadUC:        leadUC,
		TeamUC:        teamUC,
		TenantUC:      tenantUC,
		DashboardUC:   dashboardUC,
		Changes:       bus,
		Heartbeat:     cfg.HTTP.SSEHeartbeat,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
