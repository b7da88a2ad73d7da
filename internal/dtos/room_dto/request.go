package room_dto

type PostMessageRequest struct {
	Sender string `json:"sender" validate:"required,max=100"`
	Text   string `json:"text" validate:"required,max=1000"`
}
