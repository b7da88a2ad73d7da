package access_service

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/config"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
	"github.com/tahzeer/cryptalk-app/state"
)

type AccessService struct {
	AppState *state.AppState
	RoomRepo room_repo.RoomRepoContract

	// Capacity is the participant bound per room.
	Capacity int
}

func NewAccessService(appState *state.AppState) AccessServiceContract {
	capacity := 2
	if config.Conf != nil && config.Conf.ROOM.Capacity > 0 {
		capacity = config.Conf.ROOM.Capacity
	}
	return &AccessService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
		Capacity: capacity,
	}
}

// Admit lets a returning token straight back in, mints a fresh token for a
// newcomer while the room is under capacity, and rejects otherwise. Tokens
// are never carried over from another room: a presented token that is not a
// member here is ignored and a new one is minted.
func (s *AccessService) Admit(ctx context.Context, roomID, presentedToken string) (*Admission, *app_error.AppError) {
	if presentedToken != "" {
		meta, err := s.RoomRepo.GetMeta(ctx, roomID)
		if err != nil {
			if err.Code == http.StatusNotFound {
				return nil, s.notFoundKind(ctx, roomID)
			}
			return nil, err
		}
		if meta.HasToken(presentedToken) {
			return &Admission{Token: presentedToken, Minted: false}, nil
		}
	}

	token := uuid.NewString()
	result, err := s.RoomRepo.JoinRoom(ctx, roomID, token, s.Capacity)
	if err != nil {
		return nil, err
	}

	switch result {
	case room_repo.JoinAdmitted:
		log.Info().Str("roomID", roomID).Msg("participant admitted")
		return &Admission{Token: token, Minted: true}, nil
	case room_repo.JoinMember:
		// Only possible if the same token was raced in; treat as admitted.
		return &Admission{Token: token, Minted: true}, nil
	case room_repo.JoinFull:
		return nil, app_error.RoomFull()
	default:
		return nil, s.notFoundKind(ctx, roomID)
	}
}

// notFoundKind distinguishes a destroyed room from one that expired or never
// existed, while the tombstone lives.
func (s *AccessService) notFoundKind(ctx context.Context, roomID string) *app_error.AppError {
	destroyed, err := s.RoomRepo.IsDestroyed(ctx, roomID)
	if err != nil {
		return err
	}
	if destroyed {
		return app_error.RoomDestroyed()
	}
	return app_error.RoomNotFound()
}
