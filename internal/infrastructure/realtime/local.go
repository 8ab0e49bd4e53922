package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// LocalBus bus en memoria para una sola instancia del API (desarrollo y tests).
type LocalBus struct {
	mu   sync.Mutex
	next int
	subs map[int]localSub
}

type localSub struct {
	table string
	ch    chan entity.ChangeEvent
}

// NewLocalBus bus vacío.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]localSub)}
}

// Publish nunca bloquea ni falla.
func (b *LocalBus) Publish(_ context.Context, ev entity.ChangeEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.table == entity.EventAny || s.table == ev.Table {
			deliver(s.ch, ev)
		}
	}
	return nil
}

// Subscribe igual que RedisBus.Subscribe.
func (b *LocalBus) Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error) {
	ch := make(chan entity.ChangeEvent, subscriberBuffer)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = localSub{table: table, ch: ch}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers número de suscripciones activas.
func (b *LocalBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// TenantFilter deja pasar solo los eventos de un tenant. Eventos sin tenant pasan siempre.
func TenantFilter(ctx context.Context, in <-chan entity.ChangeEvent, tenantID string) <-chan entity.ChangeEvent {
	if tenantID == "" {
		return in
	}
	out := make(chan entity.ChangeEvent, subscriberBuffer)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				if ev.TenantID == "" || ev.TenantID == tenantID {
					deliver(out, ev)
				}
			}
		}
	}()
	return out
}
