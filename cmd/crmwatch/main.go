// crmwatch monta las listas vivas del CRM contra el API y registra sus agregados
// cada vez que una lista se asienta (descarga inicial, cambio remoto o reintento).
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/apiclient"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
	"github.com/jhoicas/joyeria-crm/internal/screens"
	"github.com/jhoicas/joyeria-crm/pkg/config"
	"github.com/jhoicas/joyeria-crm/pkg/logger"
	"github.com/jhoicas/joyeria-crm/pkg/telemetry"
)

type closer interface{ Close() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "crmwatch"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, "crmwatch", cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.Insecure, log.Component("telemetry"))
	defer func() { _ = shutdownTracing(context.Background()) }()

	client := apiclient.New(apiclient.Config{BaseURL: cfg.Client.APIBaseURL, Timeout: cfg.Client.Timeout}, log.Component("apiclient"))
	session, err := client.Login(ctx, cfg.Client.Email, cfg.Client.Password)
	if err != nil {
		log.Fatal().Err(err).Str("api", cfg.Client.APIBaseURL).Msg("login")
	}
	user := client.User()
	log.Info().
		Str("user", session.User.Name).
		Str("role", user.Role).
		Str("tenant_id", user.TenantID).
		Msg("sesión iniciada")

	var open []closer
	for _, name := range cfg.Client.Collections {
		s, err := mount(ctx, strings.TrimSpace(name), client, user, log.Component("livelist"))
		if err != nil {
			log.Error().Err(err).Str("collection", name).Msg("no se pudo montar la lista")
			continue
		}
		if s != nil {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		log.Fatal().Strs("collections", cfg.Client.Collections).Msg("ninguna lista montada")
	}

	<-ctx.Done()
	for _, s := range open {
		s.Close()
	}
	log.Info().Msg("crmwatch detenido")
}

func mount(ctx context.Context, name string, client *apiclient.Client, user *scope.User, log zerolog.Logger) (closer, error) {
	log = log.With().Str("collection", name).Logger()
	switch name {
	case "appointments":
		return screens.Open(ctx, screens.Appointments, client, client, user, log, report(log, func(items []screens.AppointmentRow) {
			s := screens.SummarizeAppointments(items, time.Now())
			log.Info().Int("total", s.Total).Int("today", s.Today).Int("this_week", s.ThisWeek).
				Int("this_month", s.ThisMonth).Interface("by_status", s.ByStatus).
				Float64("completion_rate", s.CompletionRate).Msg("citas")
		}))
	case "orders":
		return screens.Open(ctx, screens.Orders, client, client, user, log, report(log, func(items []screens.OrderRow) {
			s := screens.SummarizeOrders(items, time.Now())
			log.Info().Int("total", s.Total).Str("revenue", s.Revenue.StringFixed(2)).
				Int("this_month", s.ThisMonth).Int("due_today", s.DueToday).
				Interface("by_status", s.ByStatus).Msg("pedidos")
		}))
	case "customers":
		return screens.Open(ctx, screens.Customers, client, client, user, log, report(log, func(items []screens.CustomerRow) {
			s := screens.SummarizeCustomers(items, time.Now())
			log.Info().Int("total", s.Total).Int("new_this_month", s.NewThisMonth).
				Float64("vip_share", s.VIPShare).Interface("by_status", s.ByStatus).Msg("clientes")
		}))
	case "tickets":
		return screens.Open(ctx, screens.Tickets, client, client, user, log, report(log, func(items []screens.TicketRow) {
			s := screens.SummarizeTickets(items)
			ev := log.Info().Int("total", s.Total).Int("open", s.Open).Int("urgent", s.Urgent)
			for _, b := range s.Buckets {
				ev = ev.Int(b.Key, len(b.Items))
			}
			ev.Msg("tickets")
		}))
	case "leads":
		return screens.Open(ctx, screens.Leads, client, client, user, log, report(log, func(items []screens.LeadRow) {
			s := screens.SummarizeLeads(items)
			ev := log.Info().Int("total", s.Total).Str("pipeline_value", s.PipelineValue.StringFixed(2)).
				Str("won_value", s.WonValue.StringFixed(2)).Float64("conversion_rate", s.ConversionRate)
			for _, g := range s.Pipeline {
				ev = ev.Int(g.Key, len(g.Items))
			}
			ev.Msg("leads")
		}))
	case "":
		return nil, nil
	default:
		log.Warn().Msg("colección desconocida, se ignora")
		return nil, nil
	}
}

// report registra el estado y, si la lista quedó lista, su resumen.
func report[T any](log zerolog.Logger, summarize func([]T)) func(livelist.Snapshot[T]) {
	return func(s livelist.Snapshot[T]) {
		switch s.State {
		case livelist.StateFailed:
			log.Warn().Err(s.Err).Uint64("generation", s.Generation).Msg("lista sin datos, reintentará con el próximo cambio")
		case livelist.StateReady:
			log.Debug().Int("items", len(s.Items)).Uint64("generation", s.Generation).Msg("lista actualizada")
			summarize(s.Items)
		}
	}
}
