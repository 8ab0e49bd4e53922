package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

const streamBuffer = 16

// Subscribe abre GET /realtime/<table> (SSE). El primer intento de conexión es síncrono;
// después el stream se reconecta solo y cada reconexión emite un evento "*" para que la
// lista recupere los cambios perdidos. El canal se cierra al cancelar ctx.
func (c *Client) Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error) {
	body, err := c.openStream(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make(chan entity.ChangeEvent, streamBuffer)
	go func() {
		defer close(out)
		for {
			c.readStream(ctx, body, table, out)
			_ = body.Close()
			if ctx.Err() != nil {
				return
			}
			body = c.reconnect(ctx, table)
			if body == nil {
				return
			}
			send(out, entity.ChangeEvent{Event: entity.EventAny, Table: table, At: time.Now().UTC()})
		}
	}()
	return out, nil
}

func (c *Client) openStream(ctx context.Context, table string) (io.ReadCloser, error) {
	req, err := c.request(ctx, c.stream)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetDoNotParseResponse(true).Get("/realtime/" + table)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", table, err)
	}
	if resp.IsError() {
		_ = resp.RawBody().Close()
		return nil, fmt.Errorf("stream %s: HTTP %d", table, resp.StatusCode())
	}
	return resp.RawBody(), nil
}

// reconnect reintenta hasta lograrlo o hasta que ctx termine (nil).
func (c *Client) reconnect(ctx context.Context, table string) io.ReadCloser {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
		body, err := c.openStream(ctx, table)
		if err == nil {
			c.log.Info().Str("table", table).Msg("stream reconectado")
			return body
		}
		c.log.Warn().Err(err).Str("table", table).Msg("reconexión fallida")
	}
}

// readStream procesa líneas "data: {...}" hasta EOF. Comentarios (": ping") y otros campos se ignoran.
func (c *Client) readStream(ctx context.Context, body io.Reader, table string, out chan<- entity.ChangeEvent) {
	scanner := bufio.NewScanner(body)
	var data strings.Builder
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				send(out, parseEvent(data.String(), table))
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.log.Warn().Err(err).Str("table", table).Msg("stream interrumpido")
	}
}

func parseEvent(data, table string) entity.ChangeEvent {
	var ev entity.ChangeEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil || ev.Table == "" {
		return entity.ChangeEvent{Event: entity.EventAny, Table: table, At: time.Now().UTC()}
	}
	return ev
}

func send(out chan<- entity.ChangeEvent, ev entity.ChangeEvent) {
	select {
	case out <- ev:
	default:
	}
}
