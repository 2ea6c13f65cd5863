package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/service"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// SessionCookieName is the cookie holding a session id.
	SessionCookieName = "session_id"

	maxRequestIDLength = 128
)

// SessionResolver maps a raw credential to a session.
type SessionResolver interface {
	Resolve(ctx context.Context, rawToken string) (domainauth.Session, error)
}

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID returns a middleware that assigns every request an id and a
// request-scoped logger. A well-formed incoming X-Request-ID is reused.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLength || strings.ContainsAny(id, " \t\r\n") {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			ctx = context.WithValue(ctx, loggerKey{}, logger.With(slog.String("request_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging returns a middleware that logs HTTP requests and records the
// http.request metric.
func Logging(logger *slog.Logger, sink metrics.Sink) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = metrics.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			// ServeMux fills in the matched pattern on the request it was given.
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}

			l := logger
			if id := RequestIDFromContext(r.Context()); id != "" {
				l = l.With(slog.String("request_id", id))
			}
			l.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", took),
			)

			tags := map[string]string{
				"method": r.Method,
				"route":  route,
				"status": strconv.Itoa(ww.status),
			}
			sink.Count(metrics.MetricHTTPRequest, 1, tags)
			sink.Timing(metrics.MetricHTTPRequest, took, tags)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic",
					slog.Any("error", rec),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("stack", string(debug.Stack())))
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal_error",
					Err:     errInternal,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout returns a middleware that bounds the request context. A zero
// duration disables it.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession returns a middleware that resolves the request credential
// into a session. The bearer token wins over the session cookie.
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolver.Resolve(r.Context(), credentialFromRequest(r))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
				writeServiceError(w, r, err)
				return
			}

			ctx := SetSessionInContext(r.Context(), &sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func credentialFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
