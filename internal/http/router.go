package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"payledger/internal/auth"
	transactionHandler "payledger/internal/http/transaction"
	userHandler "payledger/internal/http/user"
)

func New(
	usersV1 *userHandler.Handler,
	transactionsV1 *transactionHandler.Handler,
	tokens *auth.Issuer,
	metricsHandler http.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", metricsHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			usersV1.Routes(r, RequireAuth(tokens))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(RequireAuth(tokens))
			transactionsV1.Routes(r)
		})
	})

	return router
}
