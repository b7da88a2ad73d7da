package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tahzeer/cryptalk-app/internal/dtos"
	app_error "github.com/tahzeer/cryptalk-app/internal/errors"
	"github.com/tahzeer/cryptalk-app/internal/handlers"
	access_service "github.com/tahzeer/cryptalk-app/internal/use-case/access-case"
)

type roomIdKey string
type authTokenKey string

const (
	RoomIdKey    roomIdKey    = "roomId"
	AuthTokenKey authTokenKey = "authToken"

	// TokenCookie is the participant's sole credential: script-inaccessible
	// and strictly same-site.
	TokenCookie = "x-auth-token"
)

// RoomAccess gates every room-scoped request. It resolves the roomId query
// parameter, runs the admission state machine, and on a freshly minted token
// attaches it to the response as a durable cookie. Downstream handlers read
// the room id and token from the request context.
func RoomAccess(svc access_service.AccessServiceContract) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roomID := r.URL.Query().Get("roomId")
			if roomID == "" {
				writeAppError(w, r, app_error.Validation("roomId query parameter is required", "roomId"))
				return
			}

			presented := ""
			if cookie, err := r.Cookie(TokenCookie); err == nil {
				presented = cookie.Value
			}

			admission, aerr := svc.Admit(r.Context(), roomID, presented)
			if aerr != nil {
				writeAppError(w, r, aerr)
				return
			}

			if admission.Minted {
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    admission.Token,
					Path:     "/",
					HttpOnly: true,
					Secure:   true,
					SameSite: http.SameSiteStrictMode,
				})
				log.Debug().Str("roomID", roomID).Msg("minted participant token")
			}

			ctx := context.WithValue(r.Context(), RoomIdKey, roomID)
			ctx = context.WithValue(ctx, AuthTokenKey, admission.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAppError renders gate rejections with the same envelope the wrapped
// handlers use, so a client sees one error shape regardless of where the
// request was refused.
func writeAppError(w http.ResponseWriter, r *http.Request, err *app_error.AppError) {
	handlers.WriteJSON(w, err.Code, dtos.ErrorEnvelope{
		Message: "Error occur",
		Errors: dtos.ErrorResponse{
			Code:    err.Code,
			Field:   err.Field,
			Message: err.Message,
		},
		RequestID: r.Header.Get("X-Request-ID"),
	})
}
