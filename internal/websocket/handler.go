package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token cookie is SameSite=Strict, so cross-origin upgrades fail
	// the access gate before they reach here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades an admitted participant onto the room's event stream.
// Runs behind the access gate, which put the room id and token in context.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID, ok := r.Context().Value(middleware.RoomIdKey).(string)
	if !ok || roomID == "" {
		http.Error(w, "roomId missing", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	// The client id is a throwaway handle for logs; the auth token is a
	// credential and must never appear in them.
	client := &Client{
		ID:     uuid.NewString(),
		RoomID: roomID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	if err := h.Register(roomID, client); err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to attach to room events")
		_ = conn.Close()
	}
}
