package message_service

import (
	"context"

	"github.com/tahzeer/cryptalk-app/internal/dtos/room_dto"
	"github.com/tahzeer/cryptalk-app/internal/entity"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
)

type MessageServiceContract interface {
	// Post validates, appends and broadcasts a message. The returned copy
	// never carries the poster's token.
	Post(ctx context.Context, roomID, token string, req room_dto.PostMessageRequest) (*entity.Message, *app_error.AppError)
	// List returns the room's messages in insertion order. A message keeps
	// its token field only when the requesting token authored it.
	List(ctx context.Context, roomID, requestingToken string) ([]entity.Message, *app_error.AppError)
}
