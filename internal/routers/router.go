package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tahzeer/cryptalk-app/internal/events"
	"github.com/tahzeer/cryptalk-app/internal/middleware"
	"github.com/tahzeer/cryptalk-app/internal/websocket"
	"github.com/tahzeer/cryptalk-app/state"
)

func NewRouter(appState *state.AppState, bus events.Bus, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	RoomRouter(r, appState, bus, hub)
	return r
}
