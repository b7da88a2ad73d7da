package access_service

import (
	"context"

	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
)

// Admission is the successful outcome of the gate. Minted reports whether a
// fresh token was issued on this request (and therefore must be set on the
// client as a credential).
type Admission struct {
	Token  string
	Minted bool
}

type AccessServiceContract interface {
	Admit(ctx context.Context, roomID, presentedToken string) (*Admission, *app_error.AppError)
}
