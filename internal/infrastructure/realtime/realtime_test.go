package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/infrastructure/realtime"
)

func setupRedis(t *testing.T) (*realtime.RedisBus, *redis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client, err := realtime.NewRedisClient(context.Background(), "redis://"+s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return realtime.NewRedisBus(client, "", zerolog.Nop()), client
}

func receive(t *testing.T, ch <-chan entity.ChangeEvent) entity.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("sin evento")
	}
	return entity.ChangeEvent{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Redis
// ──────────────────────────────────────────────────────────────────────────────

func TestRedisBus_PublishSubscribe(t *testing.T) {
	bus, _ := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, "appointments")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Event: entity.EventInsert, Table: "appointments", RecordID: "a1", TenantID: "t1"}))

	ev := receive(t, ch)
	assert.Equal(t, entity.EventInsert, ev.Event)
	assert.Equal(t, "appointments", ev.Table)
	assert.Equal(t, "a1", ev.RecordID)
	assert.False(t, ev.At.IsZero())
}

func TestRedisBus_WildcardReceivesEveryTable(t *testing.T) {
	bus, _ := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, entity.EventAny)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Event: entity.EventUpdate, Table: "orders"}))
	assert.Equal(t, "orders", receive(t, ch).Table)
	require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Event: entity.EventDelete, Table: "leads"}))
	assert.Equal(t, "leads", receive(t, ch).Table)
}

func TestRedisBus_UnreadablePayloadIsGenericChange(t *testing.T) {
	bus, client := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, "tickets")
	require.NoError(t, err)
	require.NoError(t, client.Publish(ctx, realtime.DefaultPrefix+"tickets", "not-json").Err())

	ev := receive(t, ch)
	assert.Equal(t, entity.EventAny, ev.Event)
	assert.Equal(t, "tickets", ev.Table)
}

func TestRedisBus_CancelClosesChannel(t *testing.T) {
	bus, _ := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "customers")
	require.NoError(t, err)

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

func TestRedisBus_PublishWithoutTable(t *testing.T) {
	bus, _ := setupRedis(t)
	assert.Error(t, bus.Publish(context.Background(), entity.ChangeEvent{Event: entity.EventInsert}))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := realtime.NewRedisClient(context.Background(), "://nope")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bus local
// ──────────────────────────────────────────────────────────────────────────────

func TestLocalBus_RoutesByTable(t *testing.T) {
	bus := realtime.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orders, err := bus.Subscribe(ctx, "orders")
	require.NoError(t, err)
	all, err := bus.Subscribe(ctx, entity.EventAny)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Event: entity.EventInsert, Table: "leads"}))
	require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Event: entity.EventInsert, Table: "orders"}))

	assert.Equal(t, "orders", receive(t, orders).Table)
	assert.Equal(t, "leads", receive(t, all).Table)
	assert.Equal(t, "orders", receive(t, all).Table)
	assert.Len(t, orders, 0)
}

func TestLocalBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := realtime.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, "orders")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, bus.Publish(ctx, entity.ChangeEvent{Table: "orders"}))
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestLocalBus_CancelUnsubscribes(t *testing.T) {
	bus := realtime.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	_, err := bus.Subscribe(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscribers())

	cancel()
	assert.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTenantFilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	in := make(chan entity.ChangeEvent, 3)
	in <- entity.ChangeEvent{Table: "orders", TenantID: "t2"}
	in <- entity.ChangeEvent{Table: "orders", TenantID: "t1", RecordID: "mine"}
	in <- entity.ChangeEvent{Table: "orders"}
	close(in)

	out := realtime.TenantFilter(ctx, in, "t1")
	var got []entity.ChangeEvent
	for ev := range out {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "mine", got[0].RecordID)
	assert.Equal(t, "", got[1].TenantID)
}
