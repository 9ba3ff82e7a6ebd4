package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/db/queryable"
	"go.uber.org/zap"
)

// DbCtxMiddleware makes the connection pool available to the db package via
// the request context.
func DbCtxMiddleware(db queryable.TxQueryable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internalctx.WithDb(r.Context(), db)))
		})
	}
}

// LoggerCtxMiddleware attaches a request-scoped logger and writes one access
// log line per request.
func LoggerCtxMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger := logger.With(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("requestId", chimiddleware.GetReqID(r.Context())),
			)
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(internalctx.WithLogger(r.Context(), requestLogger)))
			requestLogger.Info("request handled",
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}

// SentryHubMiddleware puts a hub clone on the context so that handlers can
// always call sentry.GetHubFromContext. With sentry not configured this is a
// no-op hub.
func SentryHubMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sentry.GetHubFromContext(ctx) == nil {
			ctx = sentry.SetHubOnContext(ctx, sentry.CurrentHub().Clone())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
