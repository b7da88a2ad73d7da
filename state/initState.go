package state

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/config"
)

// AppState carries the process-wide dependencies. Every room, message and
// token lives in Redis under an expiring key, so Redis is the only backing
// store this service needs.
type AppState struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	Redis  *redis.Client
}

func InitAppState(ctx context.Context, cancel context.CancelFunc) (*AppState, error) {
	rAddr := config.Conf.DATABASE.Redis.Addr
	rPass := config.Conf.DATABASE.Redis.Password
	rDB := config.Conf.DATABASE.Redis.DB

	rdb, err := InitRedis(rAddr, rPass, rDB)
	if err != nil {
		return nil, err
	}

	return &AppState{
		Ctx:    ctx,
		Cancel: cancel,
		Redis:  rdb,
	}, nil
}

func (a *AppState) Close() {
	if a.Redis != nil {
		log.Info().Msg("Closing Redis client...")
		if err := a.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis client")
		}
	}
}
