package access_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
	"github.com/tahzeer/cryptalk-app/state"
)

func newTestAccess(t *testing.T) (*AccessService, room_repo.RoomRepoContract, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	appState := &state.AppState{Ctx: context.Background(), Redis: rdb}
	repo := room_repo.NewRoomRepo(appState)
	svc := &AccessService{AppState: appState, RoomRepo: repo, Capacity: 2}
	return svc, repo, mr
}

func TestAdmit_TwoParticipantsThenFull(t *testing.T) {
	svc, repo, _ := newTestAccess(t)
	ctx := context.Background()

	require.Nil(t, repo.CreateRoom(ctx, "r1", 600*time.Second))

	first, aerr := svc.Admit(ctx, "r1", "")
	require.Nil(t, aerr)
	assert.True(t, first.Minted)
	assert.NotEmpty(t, first.Token)

	second, aerr := svc.Admit(ctx, "r1", "")
	require.Nil(t, aerr)
	assert.True(t, second.Minted)
	assert.NotEqual(t, first.Token, second.Token)

	_, aerr = svc.Admit(ctx, "r1", "")
	require.NotNil(t, aerr)
	assert.Equal(t, 403, aerr.Code, "third participant must be rejected")
}

func TestAdmit_ReturningTokenReenters(t *testing.T) {
	svc, repo, _ := newTestAccess(t)
	ctx := context.Background()

	require.Nil(t, repo.CreateRoom(ctx, "r1", 600*time.Second))

	first, aerr := svc.Admit(ctx, "r1", "")
	require.Nil(t, aerr)

	again, aerr := svc.Admit(ctx, "r1", first.Token)
	require.Nil(t, aerr)
	assert.False(t, again.Minted, "re-entry must not mint a new credential")
	assert.Equal(t, first.Token, again.Token)

	meta, gerr := repo.GetMeta(ctx, "r1")
	require.Nil(t, gerr)
	assert.Len(t, meta.Connected, 1, "re-entry must not grow the token list")
}

func TestAdmit_ForeignTokenGetsFreshCredential(t *testing.T) {
	svc, repo, _ := newTestAccess(t)
	ctx := context.Background()

	require.Nil(t, repo.CreateRoom(ctx, "r1", 600*time.Second))
	require.Nil(t, repo.CreateRoom(ctx, "r2", 600*time.Second))

	inR1, aerr := svc.Admit(ctx, "r1", "")
	require.Nil(t, aerr)

	// The same browser walking into a different room must get a new token;
	// credentials are never shared across rooms.
	inR2, aerr := svc.Admit(ctx, "r2", inR1.Token)
	require.Nil(t, aerr)
	assert.True(t, inR2.Minted)
	assert.NotEqual(t, inR1.Token, inR2.Token)
}

func TestAdmit_UnknownRoom(t *testing.T) {
	svc, _, _ := newTestAccess(t)

	_, aerr := svc.Admit(context.Background(), "ghost", "")
	require.NotNil(t, aerr)
	assert.Equal(t, 404, aerr.Code)
}

func TestAdmit_DestroyedRoomIsDistinguished(t *testing.T) {
	svc, repo, _ := newTestAccess(t)
	ctx := context.Background()

	require.Nil(t, repo.CreateRoom(ctx, "r1", 600*time.Second))
	_, aerr := repo.PurgeRoom(ctx, "r1")
	require.Nil(t, aerr)

	_, aerr = svc.Admit(ctx, "r1", "")
	require.NotNil(t, aerr)
	assert.Equal(t, 410, aerr.Code, "a fresh destruction reports gone, not a generic 404")
}

func TestAdmit_ConcurrentFirstJoinsHoldCapacity(t *testing.T) {
	svc, repo, _ := newTestAccess(t)
	ctx := context.Background()

	require.Nil(t, repo.CreateRoom(ctx, "r1", 600*time.Second))

	const attempts = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, aerr := svc.Admit(ctx, "r1", ""); aerr == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, admitted)

	meta, gerr := repo.GetMeta(ctx, "r1")
	require.Nil(t, gerr)
	assert.Len(t, meta.Connected, 2, "the capacity bound holds under concurrency")
}
