package infra

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/config"
)

const correlationHeader = "X-Correlation-Id"

// Logger attaches a request-scoped zerolog logger and correlation id to the
// context and emits one line per completed request.
func Logger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(correlationHeader)
			if correlationID == "" {
				correlationID = uuid.New().String()
			}
			w.Header().Set(correlationHeader, correlationID)

			requestLogger := logger.With().
				Str("correlation_id", correlationID).
				Logger()

			ctx := context.WithValue(r.Context(), config.KeyCorrelationID, correlationID)
			ctx = requestLogger.WithContext(ctx)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				requestLogger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("remote_addr", r.RemoteAddr).
					Msg("request completed")
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
