package livelist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

func mutationOK(context.Context) (livelist.MutationResult, error) {
	return livelist.MutationResult{Success: true, Message: "Cita actualizada"}, nil
}

func TestDispatch_ExitoDescargaUnaVez(t *testing.T) {
	api := &fakeAPI{bodies: []string{`[{"id":"a"}]`, `[{"id":"a","status":"confirmed"}]`}}
	list := newList(api)
	list.Refresh(context.Background())
	d := livelist.NewDispatcher(list, zerolog.Nop())

	res, err := d.Dispatch(context.Background(), "transition", mutationOK)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int32(2), api.calls.Load(), "exactamente una recarga")
	assert.Equal(t, "confirmed", list.Snapshot().Items[0].Status)
}

func TestDispatch_RecargaFallidaNoEsErrorDeLaMutacion(t *testing.T) {
	api := &fakeAPI{bodies: []string{`[{"id":"a"}]`}}
	list := newList(api)
	list.Refresh(context.Background())
	d := livelist.NewDispatcher(list, zerolog.Nop())

	api.setFail(true)
	_, err := d.Dispatch(context.Background(), "create", mutationOK)

	require.NoError(t, err, "la mutación sí se aplicó")
	snap := list.Snapshot()
	assert.Equal(t, livelist.StateFailed, snap.State)
	assert.Empty(t, snap.Items)
}

func TestDispatch_ErrorDeTransporteNoTocaLaLista(t *testing.T) {
	api := &fakeAPI{bodies: []string{`[{"id":"a"},{"id":"b"}]`}}
	list := newList(api)
	list.Refresh(context.Background())
	d := livelist.NewDispatcher(list, zerolog.Nop())

	_, err := d.Dispatch(context.Background(), "delete", func(context.Context) (livelist.MutationResult, error) {
		return livelist.MutationResult{}, errNetwork
	})

	assert.ErrorIs(t, err, errNetwork)
	assert.Contains(t, err.Error(), "delete")
	assert.Equal(t, int32(1), api.calls.Load(), "sin recarga")
	assert.Len(t, list.Snapshot().Items, 2)
}

func TestDispatch_RechazoDelAPI(t *testing.T) {
	api := &fakeAPI{bodies: []string{`[{"id":"a"}]`}}
	list := newList(api)
	list.Refresh(context.Background())
	d := livelist.NewDispatcher(list, zerolog.Nop())

	res, err := d.Dispatch(context.Background(), "transition", func(context.Context) (livelist.MutationResult, error) {
		return livelist.MutationResult{Success: false, Message: "transición no permitida"}, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, livelist.ErrMutationRejected))
	assert.Contains(t, err.Error(), "transición no permitida")
	assert.False(t, res.Success)
	assert.Equal(t, int32(1), api.calls.Load())
}
