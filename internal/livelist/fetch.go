// Package livelist mantiene una colección local, filtrada por alcance, sincronizada con el
// API: la descarga completa, la normaliza, la vuelve a pedir ante cualquier cambio y
// expone agregados derivados. El API es la única fuente de verdad; el arreglo local es
// una caché desechable que se reemplaza entera en cada ciclo.
package livelist

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// ErrFetch envuelve cualquier fallo de red, HTTP o lectura en la etapa de descarga.
var ErrFetch = errors.New("livelist: descarga fallida")

// Filter parámetros de pantalla (status, search, page, from, to...). Se envían tal cual.
type Filter map[string]string

// Clone copia para que el llamador no mute el filtro en vuelo.
func (f Filter) Clone() Filter {
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Values convierte a query string omitiendo valores vacíos.
func (f Filter) Values() url.Values {
	v := url.Values{}
	for k, val := range f {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// FetchFunc llamada al API que devuelve el cuerpo crudo de la colección.
type FetchFunc func(ctx context.Context, filter Filter) ([]byte, error)

// Normalizer convierte un elemento crudo en la forma canónica de la pantalla.
// Debe rellenar valores por defecto en lugar de fallar.
type Normalizer[T any] func(Fields) T

// FetchAndNormalize descarga, desenvuelve y normaliza. Siempre devuelve un slice no nil.
// Un fallo de descarga devuelve [] junto con el error (envuelto en ErrFetch);
// una envoltura desconocida o elementos que no son objetos se registran y se ignoran.
func FetchAndNormalize[T any](
	ctx context.Context,
	fetch FetchFunc,
	filter Filter,
	normalize Normalizer[T],
	log zerolog.Logger,
) ([]T, error) {
	out := make([]T, 0)

	body, err := fetch(ctx, filter.Clone())
	if err != nil {
		log.Warn().Err(err).Msg("descarga de colección fallida")
		return out, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	env := DecodeEnvelope(body)
	if env.Kind == EnvelopeUnknown {
		log.Warn().Int("bytes", len(body)).Msg("envoltura desconocida, colección vacía")
		return out, nil
	}

	skipped := 0
	for _, raw := range env.Items {
		f, ok := ParseFields(raw)
		if !ok {
			skipped++
			continue
		}
		out = append(out, normalize(f))
	}
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Str("envelope", env.Kind.String()).Msg("elementos no objeto ignorados")
	}
	return out, nil
}
