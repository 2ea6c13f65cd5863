package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/service"
)

var errInternal = errors.New("internal server error")

// errorStatus maps a service error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidFilter):
		return http.StatusBadRequest, "invalid_filter"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication_required"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, model.ErrUserTypeMismatch):
		return http.StatusUnprocessableEntity, "user_type_mismatch"
	case errors.Is(err, context.DeadlineExceeded), isQueryCanceled(err):
		return http.StatusServiceUnavailable, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isQueryCanceled(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.QueryCanceled
}

// writeServiceError renders err as a JSON error. Server-side failures are
// logged and reported without their details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, errCode := errorStatus(err)
	if code >= http.StatusInternalServerError {
		LoggerFromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("error_code", errCode),
			slog.Any("error", err),
		)
		if code == http.StatusInternalServerError {
			err = errInternal
		}
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}
