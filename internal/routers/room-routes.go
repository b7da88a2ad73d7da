package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/tahzeer/cryptalk-app/internal/events"
	"github.com/tahzeer/cryptalk-app/internal/handlers"
	message_handler "github.com/tahzeer/cryptalk-app/internal/handlers/message-handler"
	room_handler "github.com/tahzeer/cryptalk-app/internal/handlers/room-handler"
	"github.com/tahzeer/cryptalk-app/internal/middleware"
	access_service "github.com/tahzeer/cryptalk-app/internal/use-case/access-case"
	"github.com/tahzeer/cryptalk-app/internal/websocket"
	"github.com/tahzeer/cryptalk-app/state"
)

func RoomRouter(r chi.Router, appState *state.AppState, bus events.Bus, hub *websocket.Hub) {
	roomHandler := room_handler.NewRoomHandler(appState, bus)
	messageHandler := message_handler.NewMessageHandler(appState, bus)
	accessService := access_service.NewAccessService(appState)

	// Creation is the only ungated operation; everything else requires
	// admission to the room named in the roomId query parameter.
	r.Post("/room/create", handlers.WrapHandler(roomHandler.CreateRoom))

	r.Group(func(gated chi.Router) {
		gated.Use(middleware.RoomAccess(accessService))
		gated.Get("/room/ttl", handlers.WrapHandler(roomHandler.RoomTTL))
		gated.Delete("/room", handlers.WrapHandler(roomHandler.DestroyRoom))
		gated.Post("/messages", handlers.WrapHandler(messageHandler.PostMessage))
		gated.Get("/messages", handlers.WrapHandler(messageHandler.ListMessages))
		gated.Get("/ws", hub.HandleWS)
	})
}
