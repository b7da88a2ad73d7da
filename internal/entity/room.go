package entity

import (
	"strings"
	"time"
)

// RoomMeta mirrors the meta:{roomId} hash. Connected preserves join order
// and never holds more than the configured capacity.
type RoomMeta struct {
	RoomID    string
	Connected []string
	CreatedAt time.Time
}

func (m *RoomMeta) HasToken(token string) bool {
	for _, t := range m.Connected {
		if t == token {
			return true
		}
	}
	return false
}

// Tokens are UUIDs, so a comma can never appear inside one.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, ",")
}

func SplitTokens(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
