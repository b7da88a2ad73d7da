package room_repo

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/internal/entity"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	"github.com/tahzeer/cryptalk-app/state"
)

const (
	metaKeyPrefix      = "meta:"
	messagesKeyPrefix  = "messages:"
	roomKeyPrefix      = "room:"
	destroyedKeyPrefix = "destroyed:"

	// How long the destruction marker outlives the room. Long enough for a
	// connected client to land on a "destroyed" page instead of a generic 404.
	tombstoneTTL = 60 * time.Second
)

func MetaKey(roomID string) string      { return metaKeyPrefix + roomID }
func MessagesKey(roomID string) string  { return messagesKeyPrefix + roomID }
func RoomKey(roomID string) string      { return roomKeyPrefix + roomID }
func DestroyedKey(roomID string) string { return destroyedKeyPrefix + roomID }

// joinScript admits a token only while the room is under capacity. Running
// as a single script closes the check-then-append race: two concurrent
// first-time joins serialize inside Redis, so the capacity bound holds
// structurally.
var joinScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 'missing'
end
local connected = redis.call('HGET', KEYS[1], 'connected')
if connected == false then
  connected = ''
end
local count = 0
for tok in string.gmatch(connected, '([^,]+)') do
  if tok == ARGV[1] then
    return 'member'
  end
  count = count + 1
end
if count >= tonumber(ARGV[2]) then
  return 'full'
end
if connected == '' then
  connected = ARGV[1]
else
  connected = connected .. ',' .. ARGV[1]
end
redis.call('HSET', KEYS[1], 'connected', connected)
return 'joined'
`)

// appendScript appends a message and re-arms the message-log and primary
// keys to the metadata key's remaining TTL in one step, so the three keys
// always expire together. Returns 0 when the room is already gone.
var appendScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('RPUSH', KEYS[2], ARGV[1])
local remaining = redis.call('PTTL', KEYS[1])
if remaining > 0 then
  redis.call('PEXPIRE', KEYS[2], remaining)
  redis.call('PEXPIRE', KEYS[3], remaining)
end
return 1
`)

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

func (r *RoomRepo) CreateRoom(ctx context.Context, roomID string, ttl time.Duration) *app_error.AppError {
	createdAt := time.Now().UnixMilli()

	// One MULTI so the metadata and primary key appear (and expire) together.
	_, err := r.AppState.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, MetaKey(roomID), "createdAt", createdAt, "connected", "")
		pipe.PExpire(ctx, MetaKey(roomID), ttl)
		pipe.Set(ctx, RoomKey(roomID), strconv.FormatInt(createdAt, 10), ttl)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("failed to create room keys")
		return app_error.StoreUnavailable(err)
	}
	return nil
}

func (r *RoomRepo) GetMeta(ctx context.Context, roomID string) (*entity.RoomMeta, *app_error.AppError) {
	vals, err := r.AppState.Redis.HGetAll(ctx, MetaKey(roomID)).Result()
	if err != nil {
		return nil, app_error.StoreUnavailable(err)
	}
	if len(vals) == 0 {
		return nil, app_error.RoomNotFound()
	}

	meta := &entity.RoomMeta{
		RoomID:    roomID,
		Connected: entity.SplitTokens(vals["connected"]),
	}
	if ms, err := strconv.ParseInt(vals["createdAt"], 10, 64); err == nil {
		meta.CreatedAt = time.UnixMilli(ms)
	}
	return meta, nil
}

func (r *RoomRepo) RoomExists(ctx context.Context, roomID string) (bool, *app_error.AppError) {
	n, err := r.AppState.Redis.Exists(ctx, MetaKey(roomID)).Result()
	if err != nil {
		return false, app_error.StoreUnavailable(err)
	}
	return n > 0, nil
}

func (r *RoomRepo) RoomTTL(ctx context.Context, roomID string) (time.Duration, *app_error.AppError) {
	ttl, err := r.AppState.Redis.TTL(ctx, MetaKey(roomID)).Result()
	if err != nil {
		return 0, app_error.StoreUnavailable(err)
	}
	// go-redis reports the -2 ("no key") and -1 ("no expiry") sentinels as
	// raw negative durations.
	if ttl == -2 {
		return 0, app_error.RoomNotFound()
	}
	if ttl < 0 {
		// Lapsed but not yet reaped; report zero, never negative.
		return 0, nil
	}
	return ttl, nil
}

func (r *RoomRepo) JoinRoom(ctx context.Context, roomID, token string, capacity int) (JoinResult, *app_error.AppError) {
	res, err := joinScript.Run(ctx, r.AppState.Redis, []string{MetaKey(roomID)}, token, capacity).Text()
	if err != nil {
		return "", app_error.StoreUnavailable(err)
	}

	switch JoinResult(res) {
	case JoinAdmitted, JoinMember, JoinFull, JoinMissing:
		return JoinResult(res), nil
	default:
		return "", app_error.StoreUnavailable(errors.New("unexpected join script result: " + res))
	}
}

func (r *RoomRepo) AppendMessage(ctx context.Context, msg *entity.Message) *app_error.AppError {
	payload, err := json.Marshal(msg)
	if err != nil {
		return app_error.StoreUnavailable(err)
	}

	keys := []string{MetaKey(msg.RoomID), MessagesKey(msg.RoomID), RoomKey(msg.RoomID)}
	appended, err := appendScript.Run(ctx, r.AppState.Redis, keys, payload).Int()
	if err != nil {
		return app_error.StoreUnavailable(err)
	}
	if appended == 0 {
		return app_error.RoomNotFound()
	}
	return nil
}

func (r *RoomRepo) ListMessages(ctx context.Context, roomID string) ([]entity.Message, *app_error.AppError) {
	raw, err := r.AppState.Redis.LRange(ctx, MessagesKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, app_error.StoreUnavailable(err)
	}

	messages := make([]entity.Message, 0, len(raw))
	for _, item := range raw {
		var msg entity.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			log.Warn().Err(err).Str("roomID", roomID).Msg("skipping undecodable message entry")
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// PurgeRoom removes all three room keys in a single DEL and leaves a
// short-lived tombstone behind. Reports whether the room was still present,
// so a repeated destroy is a clean no-op.
func (r *RoomRepo) PurgeRoom(ctx context.Context, roomID string) (bool, *app_error.AppError) {
	deleted, err := r.AppState.Redis.Del(ctx, MetaKey(roomID), MessagesKey(roomID), RoomKey(roomID)).Result()
	if err != nil {
		return false, app_error.StoreUnavailable(err)
	}
	if deleted == 0 {
		return false, nil
	}

	if err := r.AppState.Redis.Set(ctx, DestroyedKey(roomID), "1", tombstoneTTL).Err(); err != nil {
		// The room itself is gone; losing the marker only costs the nicer 410.
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to set destroyed marker")
	}
	return true, nil
}

func (r *RoomRepo) IsDestroyed(ctx context.Context, roomID string) (bool, *app_error.AppError) {
	n, err := r.AppState.Redis.Exists(ctx, DestroyedKey(roomID)).Result()
	if err != nil {
		return false, app_error.StoreUnavailable(err)
	}
	return n > 0, nil
}
