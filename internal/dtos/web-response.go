package dtos

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Message   string        `json:"message"`
	Errors    ErrorResponse `json:"errors"`
	RequestID string        `json:"request_id,omitempty"`
}
