package http

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/realtime"
)

// ChangeSubscriber lo implementan realtime.RedisBus y realtime.LocalBus.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error)
}

var streamTables = map[string]bool{
	entity.EventAny:           true,
	usecase.TableCustomers:    true,
	usecase.TableAppointments: true,
	usecase.TableOrders:       true,
	usecase.TableProducts:     true,
	usecase.TableTickets:      true,
	usecase.TableLeads:        true,
	usecase.TableUsers:        true,
	usecase.TableStores:       true,
	usecase.TableTenants:      true,
}

// RealtimeHandler expone el canal de cambios como Server-Sent Events.
type RealtimeHandler struct {
	bus       ChangeSubscriber
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewRealtimeHandler heartbeat <= 0 usa 25s.
func NewRealtimeHandler(bus ChangeSubscriber, heartbeat time.Duration, log zerolog.Logger) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &RealtimeHandler{bus: bus, heartbeat: heartbeat, log: log}
}

// Stream godoc
// @Summary      Cambios en tiempo real
// @Description  Stream SSE; cada evento es {"event": "insert|update|delete", "table": "..."} del tenant del token.
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Param        table  path  string  true  "Tabla o * para todas"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/realtime/{table} [get]
func (h *RealtimeHandler) Stream(c *fiber.Ctx) error {
	table := c.Params("table")
	if !streamTables[table] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_TABLE", Message: "tabla desconocida: " + table})
	}

	// La suscripción vive lo que viva la conexión, no la petición de fasthttp.
	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.bus.Subscribe(ctx, table)
	if err != nil {
		cancel()
		h.log.Error().Err(err).Str("table", table).Msg("realtime: suscripción fallida")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REALTIME_UNAVAILABLE", Message: "canal de cambios no disponible"})
	}
	events = realtime.TenantFilter(ctx, events, GetTenantID(c))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With().Str("table", table).Str("user_id", GetUserID(c)).Logger()
	heartbeat := h.heartbeat

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		log.Debug().Msg("realtime: cliente conectado")
		defer log.Debug().Msg("realtime: cliente desconectado")

		if writeComment(w, "connected") != nil {
			return
		}
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if writeEvent(w, ev) != nil {
					return
				}
			case <-ticker.C:
				// Un cliente caído solo se detecta al escribir.
				if writeComment(w, "ping") != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, ev entity.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: change\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := w.WriteString(": " + text + "\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
