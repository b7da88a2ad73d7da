package app_error

import (
	"encoding/json"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e AppError) Error() string {
	return e.Message
}

func (e AppError) JSON(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(e)
}

func NewAppError(code int, msg, field string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Field:   field,
	}
}

// The client-facing taxonomy. RoomNotFound and Validation are recoverable
// outcomes a caller is expected to branch on; the rest are fatal to the
// in-flight request and are never retried.

func RoomNotFound() *AppError {
	return NewAppError(http.StatusNotFound, "room does not exist", "roomId")
}

func RoomDestroyed() *AppError {
	return NewAppError(http.StatusGone, "room has been destroyed", "roomId")
}

func RoomFull() *AppError {
	return NewAppError(http.StatusForbidden, "room is full", "roomId")
}

func Validation(msg, field string) *AppError {
	return NewAppError(http.StatusBadRequest, msg, field)
}

func StoreUnavailable(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "storage unavailable: "+err.Error(), "redis")
}

func BusUnavailable(err error) *AppError {
	return NewAppError(http.StatusBadGateway, "event bus unavailable: "+err.Error(), "pubsub")
}
