package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/internal/events"
)

// Hub fans room events out to the websocket clients attached to each room.
// The first client to join a room starts a bus subscription; the last one
// to leave tears it down. A chat.destroy event closes every client in the
// room, since nothing further will ever arrive.
type Hub struct {
	bus events.Bus

	mu    sync.Mutex
	rooms map[string]*roomSet

	ctx    context.Context
	cancel context.CancelFunc
}

type roomSet struct {
	clients map[*Client]struct{}
	stop    func()
}

func NewHub(bus events.Bus) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		bus:    bus,
		rooms:  make(map[string]*roomSet),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Hub) Register(roomID string, client *Client) error {
	h.mu.Lock()
	rs, ok := h.rooms[roomID]
	if ok {
		rs.clients[client] = struct{}{}
		size := len(rs.clients)
		h.mu.Unlock()
		log.Info().Str("roomID", roomID).Str("clientID", client.ID).Int("roomSize", size).Msg("ws: client registered to room")
		client.start(h)
		return nil
	}
	h.mu.Unlock()

	// First client for this room: attach to the bus outside the lock.
	ch, stop, err := h.bus.Subscribe(h.ctx, roomID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if existing, ok := h.rooms[roomID]; ok {
		// Lost the race to another first client; one subscription is enough.
		stop()
		existing.clients[client] = struct{}{}
		h.mu.Unlock()
		client.start(h)
		return nil
	}
	rs = &roomSet{
		clients: map[*Client]struct{}{client: {}},
		stop:    stop,
	}
	h.rooms[roomID] = rs
	h.mu.Unlock()

	go h.relay(roomID, ch)
	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Msg("ws: room relay started")
	client.start(h)
	return nil
}

func (h *Hub) Unregister(roomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := rs.clients[client]; !ok {
		return
	}
	delete(rs.clients, client)
	close(client.Send)

	if len(rs.clients) == 0 {
		rs.stop()
		delete(h.rooms, roomID)
		log.Info().Str("roomID", roomID).Msg("ws: room relay stopped")
	}
}

// relay pumps one room's bus events to its clients until the subscription
// ends or the room is destroyed.
func (h *Hub) relay(roomID string, ch <-chan events.Event) {
	for evt := range ch {
		data, err := json.Marshal(evt)
		if err != nil {
			log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to marshal event")
			continue
		}
		h.broadcast(roomID, data)

		if evt.Kind == events.KindDestroy {
			h.closeRoom(roomID)
			return
		}
	}
}

func (h *Hub) broadcast(roomID string, data []byte) {
	// The sends stay under the lock: Unregister closes a client's Send
	// channel while holding h.mu, so sending outside it would race the
	// close. The sends never block, so holding the lock here is cheap.
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for client := range rs.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; missed events are reconciled by a re-fetch.
			log.Warn().Str("roomID", roomID).Str("clientID", client.ID).Msg("ws: slow consumer, dropping event")
		}
	}
}

func (h *Hub) closeRoom(roomID string) {
	h.mu.Lock()
	rs, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	clients := make([]*Client, 0, len(rs.clients))
	for client := range rs.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		_ = client.Conn.Close()
	}
}

// RoomSize reports how many clients are attached to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rs, ok := h.rooms[roomID]; ok {
		return len(rs.clients)
	}
	return 0
}

// Close shuts down every relay and client.
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	var all []*Client
	for _, rs := range h.rooms {
		for client := range rs.clients {
			all = append(all, client)
		}
	}
	h.mu.Unlock()

	for _, client := range all {
		_ = client.Conn.Close()
	}
	log.Info().Int("clients", len(all)).Msg("ws: hub shutdown completed")
}

func (c *Client) start(h *Hub) {
	go c.writePump()
	go c.readPump(h)
}
