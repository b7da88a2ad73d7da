package events

import (
	"context"

	"github.com/tahzeer/cryptalk-app/internal/entity"
)

type Kind string

const (
	KindMessage Kind = "chat.message"
	KindDestroy Kind = "chat.destroy"
)

// Event is what travels over a room's channel. Message is set for
// chat.message (token already stripped by the publisher); chat.destroy
// carries only the marker.
type Event struct {
	Kind      Kind            `json:"kind"`
	RoomID    string          `json:"roomId"`
	Message   *entity.Message `json:"message,omitempty"`
	Destroyed bool            `json:"isDestroyed,omitempty"`
}

// Bus is a per-room publish/subscribe channel. Delivery is at-least-once to
// currently attached subscribers and nothing is replayed: a consumer that
// (re)connects must re-fetch room state instead of trusting missed events.
type Bus interface {
	Publish(ctx context.Context, roomID string, evt Event) error
	// Subscribe returns a channel of events for the room and a stop function
	// that releases the subscription. The channel closes on stop or when ctx
	// is done.
	Subscribe(ctx context.Context, roomID string) (<-chan Event, func(), error)
}
