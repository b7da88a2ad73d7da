package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const channelPrefix = "events:"

func ChannelName(roomID string) string { return channelPrefix + roomID }

// RedisBus routes room events through Redis Pub/Sub, one channel per room.
type RedisBus struct {
	Redis *redis.Client
}

func NewRedisBus(rdb *redis.Client) Bus {
	return &RedisBus{Redis: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, roomID string, evt Event) error {
	evt.RoomID = roomID
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.Redis.Publish(ctx, ChannelName(roomID), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, roomID string) (<-chan Event, func(), error) {
	pubsub := b.Redis.Subscribe(ctx, ChannelName(roomID))

	// Force the SUBSCRIBE onto the wire before we report success, so events
	// published after Subscribe returns are never missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan Event, 16)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Warn().Err(err).Str("roomID", roomID).Msg("bus: dropping undecodable event")
					continue
				}
				select {
				case out <- evt:
				default:
					// Slow consumer; delivery is best-effort by design.
					log.Warn().Str("roomID", roomID).Str("kind", string(evt.Kind)).Msg("bus: subscriber buffer full, dropping event")
				}
			}
		}
	}()

	return out, stop, nil
}
