package livelist_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

const logical = `[{"id":1,"status":"confirmed","name":"Ana"},{"id":"2","status":null}]`

func TestDecodeEnvelope_CuatroFormas(t *testing.T) {
	cases := map[livelist.EnvelopeKind]string{
		livelist.EnvelopeBareArray:   logical,
		livelist.EnvelopeResults:     `{"count":2,"results":` + logical + `}`,
		livelist.EnvelopeData:        `{"success":true,"data":` + logical + `}`,
		livelist.EnvelopeDataResults: `{"data":{"results":` + logical + `,"next":null}}`,
	}

	var want []row
	for kind, body := range cases {
		env := livelist.DecodeEnvelope([]byte(body))
		assert.Equal(t, kind, env.Kind, body)

		api := &fakeAPI{bodies: []string{body}}
		got, err := livelist.FetchAndNormalize(context.Background(), api.fetch, nil, normalizeRow, zerolog.Nop())
		require.NoError(t, err)
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "misma salida normalizada para %s", kind)
	}
	assert.Equal(t, []row{
		{ID: "1", Status: "confirmed", Name: "Ana"},
		{ID: "2", Status: "scheduled", Name: "Unknown Customer"},
	}, want)
}

func TestDecodeEnvelope_FormasDesconocidas(t *testing.T) {
	bodies := []string{
		``,
		`null`,
		`{"foo":"bar"}`,
		`{"results":{"a":1}}`,
		`{"data":"texto"}`,
		`{"data":{"items":[]}}`,
		`{"success":false,"message":"boom"}`,
		`[1,2`,
		`"hola"`,
		`<html>502</html>`,
	}
	for _, b := range bodies {
		env := livelist.DecodeEnvelope([]byte(b))
		assert.Equal(t, livelist.EnvelopeUnknown, env.Kind, b)
		assert.NotNil(t, env.Items, b)
		assert.Empty(t, env.Items, b)
	}
}

func TestDecodeEnvelope_ResultsTienePrioridadSobreData(t *testing.T) {
	env := livelist.DecodeEnvelope([]byte(`{"results":[{"id":1}],"data":[{"id":2},{"id":3}]}`))
	assert.Equal(t, livelist.EnvelopeResults, env.Kind)
	assert.Len(t, env.Items, 1)
}

func TestFetchAndNormalize_CategoriaMalformada(t *testing.T) {
	api := &fakeAPI{bodies: []string{`{"foo": "bar"}`}}
	got, err := livelist.FetchAndNormalize(context.Background(), api.fetch, nil, normalizeRow, zerolog.Nop())

	require.NoError(t, err, "una forma desconocida no es un error")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchAndNormalize_FalloDeRed(t *testing.T) {
	api := &fakeAPI{fail: true}
	got, err := livelist.FetchAndNormalize(context.Background(), api.fetch, nil, normalizeRow, zerolog.Nop())

	assert.ErrorIs(t, err, livelist.ErrFetch)
	require.NotNil(t, got, "nunca nil aunque falle")
	assert.Empty(t, got)
}

func TestFetchAndNormalize_IgnoraElementosNoObjeto(t *testing.T) {
	api := &fakeAPI{bodies: []string{`[{"id":1},null,"x",42,{"id":2}]`}}
	got, err := livelist.FetchAndNormalize(context.Background(), api.fetch, nil, normalizeRow, zerolog.Nop())

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchAndNormalize_FiltroSePasaTalCual(t *testing.T) {
	api := &fakeAPI{}
	f := livelist.Filter{"status": "confirmed", "search": "ana", "page": "2"}
	_, err := livelist.FetchAndNormalize(context.Background(), api.fetch, f, normalizeRow, zerolog.Nop())

	require.NoError(t, err)
	require.Len(t, api.filters, 1)
	assert.Equal(t, f, api.filters[0])
	assert.Equal(t, "page=2&search=ana&status=confirmed", f.Values().Encode())
}
