package livelist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// ErrAlreadyMounted Mount llamado dos veces sin Unmount.
var ErrAlreadyMounted = errors.New("livelist: ya montada")

// State estado de la lista.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	// StateFailed la última descarga falló; Items está vacío y Err trae la causa.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot lo que la capa de presentación ve en un instante.
type Snapshot[T any] struct {
	State      State
	Items      []T
	Err        error
	Generation uint64 // número de la descarga que produjo Items
	Loading    bool   // hay al menos una descarga en vuelo
	FetchedAt  time.Time
}

// Subscriber canal de notificaciones por tabla. El canal se cierra al cancelar ctx.
type Subscriber interface {
	Subscribe(ctx context.Context, table string) (<-chan entity.ChangeEvent, error)
}

// Config dependencias de un Controller.
type Config[T any] struct {
	Table     string
	Fetch     FetchFunc
	Normalize Normalizer[T]
	// Scope filtra por usuario después de normalizar; nil = sin filtro.
	Scope    func([]T) []T
	Filter   Filter
	Logger   zerolog.Logger
	// OnChange recibe cada snapshot aplicado. Puede llamar a Unmount; en ese caso
	// Unmount no espera a que termine la escucha en curso.
	OnChange func(Snapshot[T])
	Now      func() time.Time
}

// Controller dueño de la colección de una pantalla.
//
// Cada descarga recibe un número de generación creciente; solo se aplica la respuesta
// de la última generación emitida, así una respuesta lenta nunca pisa otra más nueva.
type Controller[T any] struct {
	cfg Config[T]
	log zerolog.Logger

	mu        sync.Mutex
	filter    Filter
	items     []T
	state     State
	err       error
	issued    uint64
	applied   uint64
	inflight  int
	fetchedAt time.Time

	mounted   bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
	notifying *atomic.Bool // la escucha del montaje actual está dentro de Refresh
}

// New construye el controller en estado Idle.
func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller[T]{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("table", cfg.Table).Logger(),
		filter: cfg.Filter.Clone(),
		items:  make([]T, 0),
	}
}

// Table nombre de la colección.
func (c *Controller[T]) Table() string { return c.cfg.Table }

// Refresh descarga de nuevo la colección completa y devuelve el snapshot resultante.
// Es seguro llamarlo concurrentemente.
func (c *Controller[T]) Refresh(ctx context.Context) Snapshot[T] {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.issued++
	gen := c.issued
	filter := c.filter.Clone()
	c.inflight++
	c.state = StateLoading
	c.mu.Unlock()

	items, err := FetchAndNormalize(ctx, c.cfg.Fetch, filter, c.cfg.Normalize, c.log)
	if err == nil && c.cfg.Scope != nil {
		items = c.cfg.Scope(items)
	}

	c.mu.Lock()
	c.inflight--
	if c.closed || gen != c.issued {
		// Desmontada o superada por una descarga posterior.
		c.log.Debug().Uint64("generation", gen).Uint64("latest", c.issued).Msg("respuesta descartada")
		if c.inflight == 0 {
			c.settleLocked()
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.applied = gen
	c.fetchedAt = c.cfg.Now()
	if err != nil {
		c.items = make([]T, 0)
		c.state = StateFailed
		c.err = err
	} else {
		c.items = items
		c.state = StateReady
		c.err = nil
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug().Uint64("generation", gen).Int("items", len(snap.Items)).Str("state", snap.State.String()).Msg("lista actualizada")
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(snap)
	}
	return snap
}

// SetFilter reemplaza el filtro de pantalla y vuelve a descargar.
func (c *Controller[T]) SetFilter(ctx context.Context, f Filter) Snapshot[T] {
	c.mu.Lock()
	c.filter = f.Clone()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Filter copia del filtro actual.
func (c *Controller[T]) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

// Snapshot estado actual sin disparar descarga.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// settleLocked deja el estado de la última respuesta aplicada cuando ya no queda
// ninguna descarga que lo vaya a reemplazar.
func (c *Controller[T]) settleLocked() {
	if c.state != StateLoading {
		return
	}
	switch {
	case c.applied == 0:
		c.state = StateIdle
	case c.err != nil:
		c.state = StateFailed
	default:
		c.state = StateReady
	}
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		State:      c.state,
		Items:      items,
		Err:        c.err,
		Generation: c.applied,
		Loading:    c.inflight > 0 && !c.closed,
		FetchedAt:  c.fetchedAt,
	}
}

// Mount abre la suscripción de la tabla, hace la descarga inicial y queda escuchando.
// Cada evento dispara una descarga completa; su contenido no se inspecciona.
// Si la suscripción falla la lista funciona igual, solo sin actualizaciones en vivo.
func (c *Controller[T]) Mount(ctx context.Context, sub Subscriber) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	mctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	notifying := new(atomic.Bool)
	c.mounted = true
	c.closed = false
	c.cancel = cancel
	c.done = done
	c.notifying = notifying
	c.mu.Unlock()

	var events <-chan entity.ChangeEvent
	if sub != nil {
		ev, err := sub.Subscribe(mctx, c.cfg.Table)
		if err != nil {
			c.log.Warn().Err(err).Msg("sin canal en vivo, solo descargas manuales")
		} else {
			events = ev
		}
	}

	// La escucha todavía no arrancó: un Unmount desde OnChange no debe esperarla.
	notifying.Store(true)
	c.Refresh(mctx)
	notifying.Store(false)
	go c.listen(mctx, events, done, notifying)
	return nil
}

func (c *Controller[T]) listen(ctx context.Context, events <-chan entity.ChangeEvent, done chan struct{}, notifying *atomic.Bool) {
	defer close(done)
	if events == nil {
		<-ctx.Done()
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			// Varios eventos pendientes equivalen a una sola descarga.
			coalesced := 1 + drain(events)
			c.log.Debug().Str("event", ev.Event).Int("coalesced", coalesced).Msg("cambio remoto")
			notifying.Store(true)
			c.Refresh(ctx)
			notifying.Store(false)
		}
	}
}

func drain(events <-chan entity.ChangeEvent) int {
	n := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

// Unmount cierra la suscripción y descarta cualquier respuesta que llegue después,
// incluida la de una descarga que siga en vuelo aunque la lista se vuelva a montar.
// Espera a que termine la escucha salvo que se llame desde OnChange.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	c.closed = true
	c.issued++
	c.settleLocked()
	cancel, done, notifying := c.cancel, c.done, c.notifying
	c.mu.Unlock()

	cancel()
	if notifying.Load() {
		return
	}
	<-done
}
