package room_dto

import "github.com/tahzeer/cryptalk-app/internal/entity"

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type RoomTTLResponse struct {
	Remaining int64 `json:"remaining"`
}

type ListMessagesResponse struct {
	Messages []entity.Message `json:"messages"`
}
