package http

import (
	"context"
	"errors"
	"net/http"

	"finances/internal/core"
	"finances/internal/log"
)

type contextKey string

const userIDKey contextKey = "user_id"

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// userIDFrom returns the caller set by requireAuth.
func userIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// statusFor maps an error to its HTTP status and client message. Unknown
// errors become a generic 500 so store details never leak.
func statusFor(err error) (int, string) {
	var (
		verr *core.ValidationError
		rerr *core.ReferenceError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.As(err, &rerr):
		return http.StatusBadRequest, rerr.Error()
	case errors.Is(err, core.ErrInvalidReference):
		return http.StatusBadRequest, core.ErrInvalidReference.Error()
	case errors.Is(err, core.ErrNothingToUpdate):
		return http.StatusBadRequest, core.ErrNothingToUpdate.Error()
	case errors.Is(err, errInvalidBody), errors.Is(err, errMissingID), errors.Is(err, errInvalidID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errBodyTooBig):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized, core.ErrUnauthenticated.Error()
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, core.ErrInvalidCredentials.Error()
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, core.ErrNotFound.Error()
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict, "conflicts with existing data"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError answers with the mapped status. Server errors are logged with
// the underlying cause.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		fields := log.NewFields().WithErrorType(log.ErrorTypeInternal)
		if userID, ok := userIDFrom(r.Context()); ok {
			fields = fields.WithUserID(userID)
		}
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, op, fields)
	}
	_ = ErrorResponse(status, msg).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	_ = NewJSONResponse().Status(status).Body(v).Write(w)
}
