package message_service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/internal/dtos/room_dto"
	"github.com/tahzeer/cryptalk-app/internal/entity"
	"github.com/tahzeer/cryptalk-app/internal/events"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	room_repo "github.com/tahzeer/cryptalk-app/internal/repo/room"
	"github.com/tahzeer/cryptalk-app/state"
)

type MessageService struct {
	AppState *state.AppState
	RoomRepo room_repo.RoomRepoContract
	Bus      events.Bus
	Validate *validator.Validate
}

func NewMessageService(appState *state.AppState, bus events.Bus) MessageServiceContract {
	return &MessageService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
		Bus:      bus,
		Validate: validator.New(),
	}
}

func (s *MessageService) Post(ctx context.Context, roomID, token string, req room_dto.PostMessageRequest) (*entity.Message, *app_error.AppError) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, app_error.Validation(fmt.Sprintf("invalid message: %v", err), "body")
	}

	msg := &entity.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Sender:    req.Sender,
		Text:      req.Text,
		Timestamp: time.Now().UnixMilli(),
		Token:     token,
	}

	// Persist first: a subscriber must never observe a message that failed
	// to land in the log. The append also re-arms the sibling keys to the
	// room's remaining TTL in the same store-side step.
	if err := s.RoomRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	public := msg.WithoutToken()
	if err := s.Bus.Publish(ctx, roomID, events.Event{Kind: events.KindMessage, Message: &public}); err != nil {
		// The message is persisted; connected clients reconcile via List.
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to publish message event")
	}

	return &public, nil
}

func (s *MessageService) List(ctx context.Context, roomID, requestingToken string) ([]entity.Message, *app_error.AppError) {
	exists, err := s.RoomRepo.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, app_error.RoomNotFound()
	}

	messages, err := s.RoomRepo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		messages[i] = messages[i].ForViewer(requestingToken)
	}
	return messages, nil
}
