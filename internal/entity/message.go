package entity

// Message is stored in the messages:{roomId} list with the poster's token
// attached. The token is an ownership marker only: it is stripped before a
// message is published or returned to anyone but its author.
type Message struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Token     string `json:"token,omitempty"`
}

// WithoutToken returns a copy safe to hand to anyone.
func (m Message) WithoutToken() Message {
	m.Token = ""
	return m
}

// ForViewer keeps the token only when the viewer authored the message, so a
// client can mark its own messages without a separate identity header.
func (m Message) ForViewer(viewerToken string) Message {
	if m.Token != viewerToken {
		m.Token = ""
	}
	return m
}
