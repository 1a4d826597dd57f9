package chi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware is a custom logging middleware
func LoggerMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if r.URL.Path != "/health" {

					l.Info("http_request",
						"request_id", middleware.GetReqID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"status", ww.Status(),
						"bytes", ww.BytesWritten(),
						"remote_addr", r.RemoteAddr,
						"duration", time.Since(start),
					)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
