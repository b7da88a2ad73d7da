package room_service

import (
	"context"

	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
)

type RoomServiceContract interface {
	Create(ctx context.Context) (string, *app_error.AppError)
	// RemainingTTL reports whole seconds left before the room expires,
	// never negative.
	RemainingTTL(ctx context.Context, roomID string) (int64, *app_error.AppError)
	// Destroy broadcasts the destruction marker, then removes every room
	// key. Destroying an already-gone room is a no-op.
	Destroy(ctx context.Context, roomID string) *app_error.AppError
}
