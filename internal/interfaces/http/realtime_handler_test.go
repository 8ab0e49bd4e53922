package http_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	apphttp "github.com/jhoicas/joyeria-crm/internal/interfaces/http"
)

// finiteBus entrega eventos fijos y cierra el canal, así el stream termina.
type finiteBus struct {
	events []entity.ChangeEvent
	tables []string
}

func (b *finiteBus) Subscribe(_ context.Context, table string) (<-chan entity.ChangeEvent, error) {
	b.tables = append(b.tables, table)
	ch := make(chan entity.ChangeEvent, len(b.events))
	for _, ev := range b.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func streamApp(bus apphttp.ChangeSubscriber) *fiber.App {
	app := fiber.New()
	h := apphttp.NewRealtimeHandler(bus, time.Minute, zerolog.Nop())
	app.Get("/api/realtime/:table", apphttp.AuthMiddleware(testJWTSecret), h.Stream)
	return app
}

func TestRealtimeHandler_StreamFiltraPorTenant(t *testing.T) {
	bus := &finiteBus{events: []entity.ChangeEvent{
		{Event: entity.EventInsert, Table: "appointments", TenantID: testTenantID},
		{Event: entity.EventUpdate, Table: "appointments", TenantID: "otro-tenant"},
		{Event: entity.EventDelete, Table: "appointments", TenantID: testTenantID},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/realtime/appointments", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleManager))
	resp, err := streamApp(bus).Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, []string{"appointments"}, bus.tables)

	var data []string
	comments := 0
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case strings.HasPrefix(line, ":"):
			comments++
		}
	}
	require.Len(t, data, 2)
	assert.Contains(t, data[0], `"event":"insert"`)
	assert.Contains(t, data[1], `"event":"delete"`)
	assert.Equal(t, 1, comments, "solo el comentario de conexión")
}

func TestRealtimeHandler_TablaDesconocida(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/realtime/invoices", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleManager))
	resp, err := streamApp(&finiteBus{}).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
