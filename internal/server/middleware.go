package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/quoteboard/internal/common"
)

// UserIDHeader carries the caller identity set by the fronting auth layer.
const UserIDHeader = "X-Quoteboard-User-ID"

const (
	requestIDHeader     = "X-Request-ID"
	correlationIDHeader = "X-Correlation-ID"
)

var corsAllowHeaders = strings.Join([]string{
	"Content-Type", "Authorization", requestIDHeader, correlationIDHeader, UserIDHeader,
}, ", ")

type middleware func(http.Handler) http.Handler

// chain wraps h so the first middleware listed sees the request first.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type correlationKey struct{}

// CorrelationID returns the id requestScope attached to ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// statusRecorder remembers what a handler wrote so the access log can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// recoverPanics turns a handler panic into a 500 and logs the stack.
func recoverPanics(logger *common.Logger) middleware {
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
				logger.Error().
					Str("panic", fmt.Sprint(rec)).
					Str("route", r.Method+" "+r.URL.Path).
					Str("correlation_id", CorrelationID(r.Context())).
					Bytes("stack", debug.Stack()).
					Msg("Handler panicked")
				WriteError(w, http.StatusInternalServerError, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// allowCORS answers preflights and opens the API to the browser front end.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Expose-Headers", correlationIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestScope attaches the correlation id and caller identity to the request context.
// The correlation id comes from X-Request-ID, then X-Correlation-ID, else a fresh short uuid.
// A missing user header leaves the single-tenant default user in effect.
func requestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := firstHeader(r, requestIDHeader, correlationIDHeader)
		if id == "" {
			id = uuid.NewString()[:8]
		}
		w.Header().Set(correlationIDHeader, id)

		ctx := context.WithValue(r.Context(), correlationKey{}, id)
		if user := strings.TrimSpace(r.Header.Get(UserIDHeader)); user != "" {
			ctx = common.WithUserContext(ctx, &common.UserContext{UserID: user})
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func firstHeader(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// withDeadline bounds the request context; provider fan-outs inherit the cancellation.
func withDeadline(timeout time.Duration) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessLog writes one line per request. Server errors log at error, client
// errors at info, everything else at trace.
func accessLog(logger *common.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.code()
			event := logger.Trace()
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case status >= http.StatusBadRequest:
				event = logger.Info()
			}

			ctx := r.Context()
			event.
				Str("route", r.Method+" "+r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", status).
				Int("bytes", rec.size).
				Dur("elapsed", time.Since(began)).
				Bool("deadline_hit", errors.Is(ctx.Err(), context.DeadlineExceeded)).
				Str("correlation_id", CorrelationID(ctx)).
				Str("user_id", common.ResolveUserID(ctx)).
				Msg("API request")
		})
	}
}
