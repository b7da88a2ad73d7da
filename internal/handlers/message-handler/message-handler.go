package message_handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/tahzeer/cryptalk-app/internal/dtos/room_dto"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	"github.com/tahzeer/cryptalk-app/internal/events"
	"github.com/tahzeer/cryptalk-app/internal/handlers"
	"github.com/tahzeer/cryptalk-app/internal/middleware"
	message_service "github.com/tahzeer/cryptalk-app/internal/use-case/message-case"
	"github.com/tahzeer/cryptalk-app/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type MessageHandler struct {
	State   *state.AppState
	Service message_service.MessageServiceContract
}

func NewMessageHandler(appState *state.AppState, bus events.Bus) *MessageHandler {
	return &MessageHandler{
		State:   appState,
		Service: message_service.NewMessageService(appState, bus),
	}
}

func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.PostMessageRequest
	defer r.Body.Close()

	roomID, token, aerr := roomContext(r)
	if aerr != nil {
		return aerr
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.Validation("invalid JSON", "body")
	}

	msg, err := h.Service.Post(r.Context(), roomID, token, req)
	if err != nil {
		return err
	}

	handlers.WriteJSON(w, http.StatusOK, msg)
	return nil
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID, token, aerr := roomContext(r)
	if aerr != nil {
		return aerr
	}

	messages, err := h.Service.List(r.Context(), roomID, token)
	if err != nil {
		return err
	}

	handlers.WriteJSON(w, http.StatusOK, room_dto.ListMessagesResponse{Messages: messages})
	return nil
}

func roomContext(r *http.Request) (string, string, *app_error.AppError) {
	roomID, ok := r.Context().Value(middleware.RoomIdKey).(string)
	if !ok || roomID == "" {
		return "", "", app_error.Validation("room id is not found in context", "roomId")
	}
	token, ok := r.Context().Value(middleware.AuthTokenKey).(string)
	if !ok || token == "" {
		return "", "", app_error.NewAppError(http.StatusUnauthorized, "auth token is not found in context", "token")
	}
	return roomID, token, nil
}
