package livelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrMutationRejected el API respondió success=false.
var ErrMutationRejected = errors.New("livelist: mutación rechazada")

// MutationResult cuerpo de respuesta de create/update/delete/transition.
type MutationResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Mutation una llamada de escritura al API.
type Mutation func(ctx context.Context) (MutationResult, error)

// Dispatcher envía mutaciones y reconcilia la lista descargándola de nuevo.
// Nunca parchea el arreglo local ni reintenta.
type Dispatcher[T any] struct {
	list *Controller[T]
	log  zerolog.Logger
}

// NewDispatcher liga el dispatcher a la lista que debe refrescar.
func NewDispatcher[T any](list *Controller[T], log zerolog.Logger) *Dispatcher[T] {
	return &Dispatcher[T]{
		list: list,
		log:  log.With().Str("table", list.Table()).Logger(),
	}
}

// Dispatch ejecuta m. Si tiene éxito descarga la lista exactamente una vez; un fallo de esa
// descarga queda en el snapshot (StateFailed) y no se devuelve aquí.
// Si la mutación falla la lista queda intacta y se devuelve el error.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, name string, m Mutation) (MutationResult, error) {
	res, err := m(ctx)
	if err != nil {
		d.log.Error().Err(err).Str("mutation", name).Msg("mutación fallida")
		return res, fmt.Errorf("%s: %w", name, err)
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "sin detalle"
		}
		d.log.Warn().Str("mutation", name).Str("message", msg).Msg("mutación rechazada")
		return res, fmt.Errorf("%s: %w: %s", name, ErrMutationRejected, msg)
	}

	d.log.Debug().Str("mutation", name).Msg("mutación aplicada, recargando")
	d.list.Refresh(ctx)
	return res, nil
}
