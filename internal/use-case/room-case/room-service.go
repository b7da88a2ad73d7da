package room_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/config"
	"github.com/tahzeer/cryptalk-app/internal/events"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
	"github.com/tahzeer/cryptalk-app/state"
)

const defaultRoomTTL = 600 * time.Second

type RoomService struct {
	AppState *state.AppState
	RoomRepo room_repo.RoomRepoContract
	Bus      events.Bus

	// TTL is the fixed room lifetime armed at creation. It is never extended
	// by activity; posting only re-synchronizes the sibling keys to whatever
	// remains.
	TTL time.Duration
}

func NewRoomService(appState *state.AppState, bus events.Bus) RoomServiceContract {
	ttl := defaultRoomTTL
	if config.Conf != nil && config.Conf.ROOM.TTLSeconds > 0 {
		ttl = time.Duration(config.Conf.ROOM.TTLSeconds) * time.Second
	}
	return &RoomService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
		Bus:      bus,
		TTL:      ttl,
	}
}

func (s *RoomService) Create(ctx context.Context) (string, *app_error.AppError) {
	roomID := uuid.NewString()
	if err := s.RoomRepo.CreateRoom(ctx, roomID, s.TTL); err != nil {
		return "", err
	}
	log.Info().Str("roomID", roomID).Dur("ttl", s.TTL).Msg("room created")
	return roomID, nil
}

func (s *RoomService) RemainingTTL(ctx context.Context, roomID string) (int64, *app_error.AppError) {
	ttl, err := s.RoomRepo.RoomTTL(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return int64(ttl / time.Second), nil
}

func (s *RoomService) Destroy(ctx context.Context, roomID string) *app_error.AppError {
	exists, err := s.RoomRepo.RoomExists(ctx, roomID)
	if err != nil {
		return err
	}
	if !exists {
		// Already gone; repeating destroy must not fire a second event.
		return nil
	}

	// Publish before deleting so connected subscribers hear about the
	// destruction while the room is still queryable by concurrent requests.
	if err := s.Bus.Publish(ctx, roomID, events.Event{Kind: events.KindDestroy, Destroyed: true}); err != nil {
		return app_error.BusUnavailable(err)
	}

	purged, aerr := s.RoomRepo.PurgeRoom(ctx, roomID)
	if aerr != nil {
		return aerr
	}
	if purged {
		log.Info().Str("roomID", roomID).Msg("room destroyed")
	}
	return nil
}
