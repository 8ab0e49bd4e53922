// Package realtime canal de notificaciones "algo cambió en la tabla X".
// En producción viaja por Redis pub/sub; sin Redis se usa un bus en memoria del proceso.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// DefaultPrefix prefijo de canal: "crm:changes:appointments".
const DefaultPrefix = "crm:changes:"

// subscriberBuffer eventos pendientes por suscripción. Si se llena se descartan: el
// consumidor ya tiene una recarga pendiente y el contenido del evento no importa.
const subscriberBuffer = 16

// NewRedisClient parsea la URL y verifica la conexión.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisBus publica y escucha cambios sobre Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewRedisBus prefix vacío = DefaultPrefix.
func NewRedisBus(client *redis.Client, prefix string, log zerolog.Logger) *RedisBus {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisBus{client: client, prefix: prefix, log: log.With().Str("component", "realtime").Logger()}
}

func (b *RedisBus) channel(table string) string { return b.prefix + table }

// Publish envía el evento al canal de su tabla.
func (b *RedisBus) Publish(ctx context.Context, ev entity.ChangeEvent) error {
	if ev.Table == "" {
		return fmt.Errorf("realtime: evento sin tabla")
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(ev.Table), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Table, err)
	}
	return nil
}

// Subscribe escucha una tabla ("*" = todas). El canal se cierra al cancelar ctx.
func (b *RedisBus) Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error) {
	var ps *redis.PubSub
	if table == entity.EventAny {
		ps = b.client.PSubscribe(ctx, b.prefix+"*")
	} else {
		ps = b.client.Subscribe(ctx, b.channel(table))
	}
	// Receive confirma la suscripción antes de devolver el canal.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}

	out := make(chan entity.ChangeEvent, subscriberBuffer)
	msgs := ps.Channel()
	go func() {
		defer close(out)
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev entity.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("evento ilegible, se trata como cambio genérico")
					ev = entity.ChangeEvent{Event: entity.EventAny, Table: table, At: time.Now().UTC()}
				}
				deliver(out, ev)
			}
		}
	}()
	return out, nil
}

func deliver(out chan<- entity.ChangeEvent, ev entity.ChangeEvent) {
	select {
	case out <- ev:
	default:
	}
}
