package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/grana-sh/grana/internal/auth"
	"github.com/grana-sh/grana/internal/db/queryable"
	"github.com/grana-sh/grana/internal/linking"
	"github.com/grana-sh/grana/internal/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the full HTTP surface of the server.
func NewRouter(db queryable.TxQueryable, logger *zap.Logger, linkingService *linking.Service) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.SentryHubMiddleware)
	router.Use(middleware.LoggerCtxMiddleware(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))
	router.Use(middleware.DbCtxMiddleware(db))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", AuthRouter)
		r.Route("/hooks", HooksRouter)

		r.Group(func(r chi.Router) {
			r.Use(auth.Verifier)
			r.Use(auth.UserAccountCtxMiddleware)
			r.Route("/transactions", TransactionsRouter)
			r.Route("/whatsapp", func(r chi.Router) {
				// an extra brake on top of the per-account request quota
				r.Use(httprate.LimitByIP(30, time.Minute))
				WhatsAppRouter(linkingService)(r)
			})
		})
	})

	return router
}
