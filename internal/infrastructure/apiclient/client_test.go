package apiclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/apiclient"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

const token = "tok-123"

func newServer(t *testing.T, mux *http.ServeMux) (*apiclient.Client, *httptest.Server) {
	t.Helper()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secreto123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"credenciales inválidas"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"` + token + `","user":{"id":"u1","role":"manager","tenant_id":"t1","store_id":"s1","floor":2}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api/", ReconnectDelay: 20 * time.Millisecond}, zerolog.Nop())
	return c, srv
}

func authorized(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer "+token }

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y descargas
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_StoresIdentity(t *testing.T) {
	c, _ := newServer(t, http.NewServeMux())

	_, err := c.Login(context.Background(), "ana@joyeria.co", "mala")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNAUTHORIZED")
	assert.Nil(t, c.User())

	res, err := c.Login(context.Background(), "ana@joyeria.co", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, token, res.Token)

	u := c.User()
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "manager", u.Role)
	assert.Equal(t, "s1", u.StoreID)
	assert.Equal(t, 2, u.Floor)
}

func TestFetcher_SendsFilterAndToken(t *testing.T) {
	mux := http.NewServeMux()
	var query string
	mux.HandleFunc("/api/appointments", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results":[{"id":"1"}],"count":1}`))
	})
	c, _ := newServer(t, mux)

	fetch := c.Fetcher("appointments")
	_, err := fetch(context.Background(), nil)
	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)

	_, err = c.Login(context.Background(), "a", "secreto123")
	require.NoError(t, err)
	body, err := fetch(context.Background(), livelist.Filter{"status": "confirmed", "search": ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[{"id":"1"}],"count":1}`, string(body))
	assert.Equal(t, "status=confirmed", query)
}

func TestFetcher_HTTPErrorIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c, _ := newServer(t, mux)
	c.SetSession(token, nil)

	_, err := c.Fetcher("orders")(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMutations(t *testing.T) {
	mux := http.NewServeMux()
	var lastMethod, lastBody string
	mux.HandleFunc("/api/leads", func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"l9"}}`))
	})
	mux.HandleFunc("/api/leads/l1/stage", func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		lastBody = in["stage"]
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"INVALID_TRANSITION","message":"transición de estado no permitida"}`))
	})
	mux.HandleFunc("/api/leads/l2", func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newServer(t, mux)
	c.SetSession(token, nil)
	ctx := context.Background()

	res, err := c.Create(ctx, "leads", map[string]string{"name": "Pedro"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.JSONEq(t, `{"id":"l9"}`, string(res.Data))
	assert.Equal(t, http.MethodPost, lastMethod)

	res, err = c.Transition(ctx, "leads", "l1", "stage", "stage", "won")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "transición de estado no permitida", res.Message)
	assert.Equal(t, http.MethodPatch, lastMethod)
	assert.Equal(t, "won", lastBody)

	_, err = c.Delete(ctx, "leads", "l2")
	require.Error(t, err)
	assert.Equal(t, http.MethodDelete, lastMethod)
}

func TestMutation_SuccessFalseInBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers/c1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"duplicado"}`))
	})
	c, _ := newServer(t, mux)
	c.SetSession(token, nil)

	res, err := c.Update(context.Background(), "customers", "c1", map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "duplicado", res.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stream SSE
// ──────────────────────────────────────────────────────────────────────────────

func TestSubscribe_ParsesEventsAndReconnects(t *testing.T) {
	mux := http.NewServeMux()
	var conns atomic.Int32
	mux.HandleFunc("/api/realtime/orders", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		n := conns.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		if n == 1 {
			_, _ = fmt.Fprint(w, ": ping\n\n")
			_, _ = fmt.Fprint(w, "event: change\ndata: {\"event\":\"insert\",\"table\":\"orders\",\"record_id\":\"o1\"}\n\n")
			return // fin del stream: el cliente debe reconectar
		}
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	c, _ := newServer(t, mux)
	c.SetSession(token, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Subscribe(ctx, "orders")
	require.NoError(t, err)

	first := next(t, ch)
	assert.Equal(t, entity.EventInsert, first.Event)
	assert.Equal(t, "o1", first.RecordID)

	again := next(t, ch)
	assert.Equal(t, entity.EventAny, again.Event)
	assert.Equal(t, "orders", again.Table)
	assert.GreaterOrEqual(t, conns.Load(), int32(2))

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_InitialFailureIsReturned(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/realtime/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	c, _ := newServer(t, mux)
	c.SetSession(token, nil)

	_, err := c.Subscribe(context.Background(), "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func next(t *testing.T, ch <-chan entity.ChangeEvent) entity.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok)
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("sin evento")
	}
	return entity.ChangeEvent{}
}
