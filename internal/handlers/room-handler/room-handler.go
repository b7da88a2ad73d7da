package room_handler

import (
	"net/http"

	"github.com/tahzeer/cryptalk-app/internal/dtos/room_dto"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	"github.com/tahzeer/cryptalk-app/internal/events"
	"github.com/tahzeer/cryptalk-app/internal/handlers"
	"github.com/tahzeer/cryptalk-app/internal/middleware"
	room_service "github.com/tahzeer/cryptalk-app/internal/use-case/room-case"
	"github.com/tahzeer/cryptalk-app/state"
)

type RoomHandler struct {
	State   *state.AppState
	Service room_service.RoomServiceContract
}

func NewRoomHandler(appState *state.AppState, bus events.Bus) *RoomHandler {
	return &RoomHandler{
		State:   appState,
		Service: room_service.NewRoomService(appState, bus),
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID, err := h.Service.Create(r.Context())
	if err != nil {
		return err
	}

	handlers.WriteJSON(w, http.StatusOK, room_dto.CreateRoomResponse{RoomID: roomID})
	return nil
}

func (h *RoomHandler) RoomTTL(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID, ok := r.Context().Value(middleware.RoomIdKey).(string)
	if !ok || roomID == "" {
		return app_error.Validation("room id is not found in context", "roomId")
	}

	remaining, err := h.Service.RemainingTTL(r.Context(), roomID)
	if err != nil {
		return err
	}

	handlers.WriteJSON(w, http.StatusOK, room_dto.RoomTTLResponse{Remaining: remaining})
	return nil
}

func (h *RoomHandler) DestroyRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID, ok := r.Context().Value(middleware.RoomIdKey).(string)
	if !ok || roomID == "" {
		return app_error.Validation("room id is not found in context", "roomId")
	}

	if err := h.Service.Destroy(r.Context(), roomID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
