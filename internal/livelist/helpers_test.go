package livelist_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

type row struct {
	ID     string
	Status string
	Name   string
}

func normalizeRow(f livelist.Fields) row {
	return row{
		ID:     f.String("id"),
		Status: f.StringOr("scheduled", "status"),
		Name:   f.StringOr("Unknown Customer", "name", "customer.name"),
	}
}

var errNetwork = errors.New("connection refused")

// fakeAPI devuelve cuerpos en secuencia y cuenta las llamadas.
type fakeAPI struct {
	mu      sync.Mutex
	bodies  []string
	fail    bool
	calls   atomic.Int32
	filters []livelist.Filter
}

func (f *fakeAPI) fetch(_ context.Context, filter livelist.Filter) ([]byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.fail {
		return nil, errNetwork
	}
	if len(f.bodies) == 0 {
		return []byte(`[]`), nil
	}
	body := f.bodies[0]
	if len(f.bodies) > 1 {
		f.bodies = f.bodies[1:]
	}
	return []byte(body), nil
}

func (f *fakeAPI) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func newList(api *fakeAPI) *livelist.Controller[row] {
	return livelist.New(livelist.Config[row]{
		Table:     "appointments",
		Fetch:     api.fetch,
		Normalize: normalizeRow,
		Logger:    zerolog.Nop(),
	})
}

// fakeSub canal de eventos controlado por el test.
type fakeSub struct {
	ch     chan entity.ChangeEvent
	tables []string
	closed atomic.Bool
}

func newFakeSub() *fakeSub { return &fakeSub{ch: make(chan entity.ChangeEvent, 8)} }

func (s *fakeSub) Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error) {
	s.tables = append(s.tables, table)
	out := make(chan entity.ChangeEvent)
	go func() {
		defer close(out)
		defer s.closed.Store(true)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-s.ch:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
