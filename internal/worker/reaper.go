package worker

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
)

// Reaper reconciles leftover room keys. The metadata key is the room's
// source of truth: once it is gone the room is destroyed, so any surviving
// message-log or primary key is garbage and gets deleted. This covers the
// window where sibling keys were re-armed just before the metadata expired.
type Reaper struct {
	Redis    *redis.Client
	Interval time.Duration

	// ScanCount tunes how many keys each SCAN page asks for.
	ScanCount int64
}

func NewReaper(rdb *redis.Client, interval time.Duration) *Reaper {
	return &Reaper{
		Redis:     rdb,
		Interval:  interval,
		ScanCount: 100,
	}
}

func (rp *Reaper) Start(ctx context.Context) {
	log.Info().Dur("interval", rp.Interval).Msg("reaper started")
	ticker := time.NewTicker(rp.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reaper stopped")
			return
		case <-ticker.C:
			reaped, err := rp.Sweep(ctx)
			if err != nil {
				log.Error().Err(err).Msg("reaper sweep failed")
				continue
			}
			if reaped > 0 {
				log.Info().Int("reaped", reaped).Msg("reaper removed orphaned room keys")
			}
		}
	}
}

// Sweep walks the message-log and primary keys and deletes those whose
// metadata key is absent. Returns how many keys were removed.
func (rp *Reaper) Sweep(ctx context.Context) (int, error) {
	reaped := 0
	for _, pattern := range []string{room_repo.MessagesKey("*"), room_repo.RoomKey("*")} {
		n, err := rp.sweepPattern(ctx, pattern)
		reaped += n
		if err != nil {
			return reaped, err
		}
	}
	return reaped, nil
}

func (rp *Reaper) sweepPattern(ctx context.Context, pattern string) (int, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	reaped := 0

	iter := rp.Redis.Scan(ctx, 0, pattern, rp.ScanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		roomID := strings.TrimPrefix(key, prefix)

		exists, err := rp.Redis.Exists(ctx, room_repo.MetaKey(roomID)).Result()
		if err != nil {
			return reaped, err
		}
		if exists > 0 {
			continue
		}

		deleted, err := rp.Redis.Del(ctx, key).Result()
		if err != nil {
			return reaped, err
		}
		if deleted > 0 {
			log.Debug().Str("key", key).Msg("reaper deleted orphaned key")
			reaped += int(deleted)
		}
	}
	return reaped, iter.Err()
}
