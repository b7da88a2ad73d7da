package room_repo

import (
	"context"
	"time"

	"github.com/tahzeer/cryptalk-app/internal/entity"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
)

// JoinResult is the outcome of the atomic capacity-checked join.
type JoinResult string

const (
	JoinAdmitted JoinResult = "joined"
	JoinMember   JoinResult = "member"
	JoinFull     JoinResult = "full"
	JoinMissing  JoinResult = "missing"
)

// RoomRepoContract is the aggregate view over the three per-room keys
// (meta:{id}, messages:{id}, room:{id}). Every multi-key mutation moves the
// keys together, so no key can outlive or under-live the room.
type RoomRepoContract interface {
	CreateRoom(ctx context.Context, roomID string, ttl time.Duration) *app_error.AppError
	GetMeta(ctx context.Context, roomID string) (*entity.RoomMeta, *app_error.AppError)
	RoomExists(ctx context.Context, roomID string) (bool, *app_error.AppError)
	RoomTTL(ctx context.Context, roomID string) (time.Duration, *app_error.AppError)
	JoinRoom(ctx context.Context, roomID, token string, capacity int) (JoinResult, *app_error.AppError)
	AppendMessage(ctx context.Context, msg *entity.Message) *app_error.AppError
	ListMessages(ctx context.Context, roomID string) ([]entity.Message, *app_error.AppError)
	PurgeRoom(ctx context.Context, roomID string) (bool, *app_error.AppError)
	IsDestroyed(ctx context.Context, roomID string) (bool, *app_error.AppError)
}
