package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// probePaths are polled by load balancers and only logged at debug level
var probePaths = map[string]bool{"/health": true, "/ready": true, "/metrics": true}

// requestLog collects values that inner handlers learn after the access log
// middleware has already wrapped the request
type requestLog struct {
	profile string
}

type requestLogKey struct{}

// annotateProfile attaches the signed-in profile to the request's access log line
func annotateProfile(ctx context.Context, profile string) {
	if entry, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		entry.profile = profile
	}
}

// Logger writes one access log line per request. Server errors log at error level,
// client errors at warn.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &requestLog{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", middleware.GetReqID(r.Context())),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields = append(fields, zap.String("route", rctx.RoutePattern()))
			}
			if entry.profile != "" {
				fields = append(fields, zap.String("profile", entry.profile))
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("HTTP Request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("HTTP Request", fields...)
			case probePaths[r.URL.Path]:
				logger.Debug("HTTP Request", fields...)
			default:
				logger.Info("HTTP Request", fields...)
			}
		})
	}
}
