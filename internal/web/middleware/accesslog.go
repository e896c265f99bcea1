package middleware

import (
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLog logs method, path, status, elapsed time and bytes written for
// every request. Requests slower than slow are logged at warn level unless
// they are event streams. A zero slow disables the warning.
func AccessLog(log zerolog.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			evt := log.Info()
			stream := strings.HasPrefix(ww.Header().Get("Content-Type"), "text/event-stream")
			if slow > 0 && elapsed >= slow && !stream {
				evt = log.Warn()
			}
			if status >= http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.Str("request_id", chiMiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("elapsed", elapsed).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
