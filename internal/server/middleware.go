package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id, puts a logger carrying it in
// the request context and logs the outcome once the handler returns.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)

			l := logger.With().Str("request_id", requestID).Logger()
			r = r.WithContext(l.WithContext(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				event := l.Info()
				if status >= http.StatusInternalServerError {
					event = l.Error()
				}
				event.
					Str("client_ip", r.RemoteAddr).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status_code", status).
					Str("latency", time.Since(start).String()).
					Msg("")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
