package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authsvc "github.com/black12-ag/reconcile/internal/auth"
	"github.com/black12-ag/reconcile/internal/http/auth"
	"github.com/black12-ag/reconcile/internal/http/payment"
	"github.com/black12-ag/reconcile/internal/http/reconcile"
	"github.com/black12-ag/reconcile/internal/http/rule"
	"github.com/black12-ag/reconcile/internal/http/statement"
)

func New(
	authSvc *authsvc.Service,
	authV1 *auth.Handler,
	statementsV1 *statement.Handler,
	reconcileV1 *reconcile.Handler,
	paymentsV1 *payment.Handler,
	rulesV1 *rule.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/statements", func(r chi.Router) {
			statementsV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(authSvc.Middleware)
				statementsV1.MutatingRoutes(r)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Use(authSvc.Middleware)
			reconcileV1.MatchRoutes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			reconcileV1.TransactionRoutes(r)
		})

		r.Route("/payments", func(r chi.Router) {
			paymentsV1.Routes(r)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(authSvc.Middleware)
				rulesV1.MutatingRoutes(r)
			})
		})
	})

	return router
}
