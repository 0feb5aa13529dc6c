package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

// accessLogger logs every request and feeds observer when set. The request
// scoped logger carries the request id.
func accessLogger(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := logging.From(r.Context())
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}
			ctx := logging.With(r.Context(), logger)

			defer func() {
				elapsed := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Info("access",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed,
					"remote", r.RemoteAddr,
					"user_agent", r.UserAgent(),
				)
				if observer != nil {
					observer.ObserveHTTP(r.Method, status, elapsed)
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
