// Package screens concreta la Live List genérica para cada pantalla del CRM:
// cómo se normaliza cada fila, qué valores por defecto lleva y qué agregados muestra.
package screens

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// UnknownCustomer nombre mostrado cuando el registro no trae cliente.
const UnknownCustomer = "Unknown Customer"

// Source el API remoto visto desde una pantalla. Lo implementa apiclient.Client.
type Source interface {
	Fetcher(path string) livelist.FetchFunc
	Create(ctx context.Context, path string, body any) (livelist.MutationResult, error)
	Update(ctx context.Context, path, id string, body any) (livelist.MutationResult, error)
	Delete(ctx context.Context, path, id string) (livelist.MutationResult, error)
	Transition(ctx context.Context, path, id, action, field, value string) (livelist.MutationResult, error)
}

// Definition describe una pantalla.
type Definition[T scope.Scoped] struct {
	Table     string // canal de cambios
	Path      string // ruta de la colección bajo /api
	Normalize livelist.Normalizer[T]
	Policy    scope.Policy
	// Action y Field del PATCH de cambio de estado: /<path>/<id>/<Action> {"<Field>": valor}.
	Action string
	Field  string
}

// Meta campos comunes a todas las filas.
type Meta struct {
	ID        string
	CreatedAt livelist.Date
	Scope     scope.Attributes
}

// ScopeAttributes implementa scope.Scoped.
func (m Meta) ScopeAttributes() scope.Attributes { return m.Scope }

func metaFrom(f livelist.Fields, kind string) Meta {
	return Meta{
		ID:        f.String("id", "uuid"),
		CreatedAt: f.Date("created_at", "createdAt"),
		Scope: scope.Attributes{
			TenantID:   f.String("tenant_id", "tenant", "tenant.id"),
			StoreID:    f.String("store_id", "store", "store.id"),
			Floor:      f.Int("floor", 0),
			OwnerID:    f.String("owner_id", "owner", "user_id"),
			AssigneeID: f.String("assigned_to", "assigned_to_id", "assignee"),
			CreatorID:  f.String("created_by", "created_by_id"),
			Kind:       f.StringOr(kind, "kind"),
		},
	}
}

// status en minúsculas; fallback si falta.
func status(f livelist.Fields, fallback string, keys ...string) string {
	s := strings.ToLower(f.String(keys...))
	if s == "" {
		return fallback
	}
	return s
}

// Screen lista viva y dispatcher de una pantalla ya montada.
type Screen[T scope.Scoped] struct {
	Def       Definition[T]
	List      *livelist.Controller[T]
	Mutations *livelist.Dispatcher[T]
	api       Source
}

// Open arma la pantalla para user y la monta: descarga inicial y suscripción a la tabla.
// onChange puede ser nil.
func Open[T scope.Scoped](
	ctx context.Context,
	def Definition[T],
	api Source,
	sub livelist.Subscriber,
	user *scope.User,
	log zerolog.Logger,
	onChange func(livelist.Snapshot[T]),
) (*Screen[T], error) {
	list := livelist.New(livelist.Config[T]{
		Table:     def.Table,
		Fetch:     api.Fetcher(def.Path),
		Normalize: def.Normalize,
		Scope: func(items []T) []T {
			return scope.Resolve(user, items, def.Policy)
		},
		Logger:   log,
		OnChange: onChange,
	})
	s := &Screen[T]{
		Def:       def,
		List:      list,
		Mutations: livelist.NewDispatcher(list, log),
		api:       api,
	}
	if err := list.Mount(ctx, sub); err != nil {
		return nil, err
	}
	return s, nil
}

// Close desmonta la lista.
func (s *Screen[T]) Close() { s.List.Unmount() }

// Create crea un registro y recarga.
func (s *Screen[T]) Create(ctx context.Context, body any) (livelist.MutationResult, error) {
	return s.Mutations.Dispatch(ctx, "create "+s.Def.Table, func(ctx context.Context) (livelist.MutationResult, error) {
		return s.api.Create(ctx, s.Def.Path, body)
	})
}

// Update modifica un registro y recarga.
func (s *Screen[T]) Update(ctx context.Context, id string, body any) (livelist.MutationResult, error) {
	return s.Mutations.Dispatch(ctx, "update "+s.Def.Table, func(ctx context.Context) (livelist.MutationResult, error) {
		return s.api.Update(ctx, s.Def.Path, id, body)
	})
}

// Delete borra un registro y recarga.
func (s *Screen[T]) Delete(ctx context.Context, id string) (livelist.MutationResult, error) {
	return s.Mutations.Dispatch(ctx, "delete "+s.Def.Table, func(ctx context.Context) (livelist.MutationResult, error) {
		return s.api.Delete(ctx, s.Def.Path, id)
	})
}

// Transition cambia el estado (o etapa) de un registro y recarga.
func (s *Screen[T]) Transition(ctx context.Context, id, to string) (livelist.MutationResult, error) {
	return s.Mutations.Dispatch(ctx, s.Def.Action+" "+s.Def.Table, func(ctx context.Context) (livelist.MutationResult, error) {
		return s.api.Transition(ctx, s.Def.Path, id, s.Def.Action, s.Def.Field, to)
	})
}
