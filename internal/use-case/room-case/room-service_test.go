package room_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahzeer/cryptalk-app/internal/events"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
	"github.com/tahzeer/cryptalk-app/state"
)

// recordingBus captures publishes so tests can assert on event side effects.
type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
	onPublish func(events.Event)
}

func (b *recordingBus) Publish(_ context.Context, roomID string, evt events.Event) error {
	evt.RoomID = roomID
	b.mu.Lock()
	b.published = append(b.published, evt)
	b.mu.Unlock()
	if b.onPublish != nil {
		b.onPublish(evt)
	}
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan events.Event, func(), error) {
	ch := make(chan events.Event)
	return ch, func() {}, nil
}

func (b *recordingBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.published...)
}

func newTestRoomService(t *testing.T) (*RoomService, *recordingBus, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	appState := &state.AppState{Ctx: context.Background(), Redis: rdb}
	bus := &recordingBus{}
	svc := &RoomService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
		Bus:      bus,
		TTL:      600 * time.Second,
	}
	return svc, bus, mr
}

func TestCreate_FreshRoomHasBoundedTTL(t *testing.T) {
	svc, _, _ := newTestRoomService(t)
	ctx := context.Background()

	roomID, aerr := svc.Create(ctx)
	require.Nil(t, aerr)
	require.NotEmpty(t, roomID)

	remaining, aerr := svc.RemainingTTL(ctx, roomID)
	require.Nil(t, aerr)
	assert.Greater(t, remaining, int64(0))
	assert.LessOrEqual(t, remaining, int64(600))
}

func TestCreate_RoomIDsAreUnique(t *testing.T) {
	svc, _, _ := newTestRoomService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		roomID, aerr := svc.Create(ctx)
		require.Nil(t, aerr)
		assert.False(t, seen[roomID])
		seen[roomID] = true
	}
}

func TestRemainingTTL_CountsDown(t *testing.T) {
	svc, _, mr := newTestRoomService(t)
	ctx := context.Background()

	roomID, aerr := svc.Create(ctx)
	require.Nil(t, aerr)

	mr.FastForward(200 * time.Second)

	remaining, aerr := svc.RemainingTTL(ctx, roomID)
	require.Nil(t, aerr)
	assert.Equal(t, int64(400), remaining)
}

func TestRemainingTTL_ExpiredRoom(t *testing.T) {
	svc, _, mr := newTestRoomService(t)
	ctx := context.Background()

	roomID, aerr := svc.Create(ctx)
	require.Nil(t, aerr)

	mr.FastForward(601 * time.Second)

	_, aerr = svc.RemainingTTL(ctx, roomID)
	require.NotNil(t, aerr)
	assert.Equal(t, 404, aerr.Code)
}

func TestDestroy_RemovesRoomAndBroadcasts(t *testing.T) {
	svc, bus, mr := newTestRoomService(t)
	ctx := context.Background()

	roomID, aerr := svc.Create(ctx)
	require.Nil(t, aerr)

	// The destroy event must go out while the room is still queryable.
	bus.onPublish = func(evt events.Event) {
		if evt.Kind == events.KindDestroy {
			assert.True(t, mr.Exists(room_repo.MetaKey(roomID)), "publish must precede deletion")
		}
	}

	require.Nil(t, svc.Destroy(ctx, roomID))

	published := bus.events()
	require.Len(t, published, 1)
	assert.Equal(t, events.KindDestroy, published[0].Kind)
	assert.True(t, published[0].Destroyed)

	assert.False(t, mr.Exists(room_repo.MetaKey(roomID)))
	assert.False(t, mr.Exists(room_repo.MessagesKey(roomID)))
	assert.False(t, mr.Exists(room_repo.RoomKey(roomID)))

	_, aerr = svc.RemainingTTL(ctx, roomID)
	require.NotNil(t, aerr)
	assert.Equal(t, 404, aerr.Code)
}

func TestDestroy_IsIdempotent(t *testing.T) {
	svc, bus, _ := newTestRoomService(t)
	ctx := context.Background()

	roomID, aerr := svc.Create(ctx)
	require.Nil(t, aerr)

	require.Nil(t, svc.Destroy(ctx, roomID))
	require.Nil(t, svc.Destroy(ctx, roomID))
	require.Nil(t, svc.Destroy(ctx, "never-existed"))

	assert.Len(t, bus.events(), 1, "repeated destroy must not fire a second event")
}
