package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the subway API.
//
// Routes:
//
//	POST   /members       → authHandler.Register
//	POST   /login/token   → authHandler.Login
//	GET    /members/me    → authHandler.Me        (bearer token)
//	GET    /lines         → lineHandler.List      (bearer token)
//	POST   /lines         → lineHandler.Create    (bearer token)
//	DELETE /lines/{id}    → lineHandler.Delete    (bearer token)
//	GET    /stations      → lineHandler.Stations  (bearer token)
//	POST   /stations      → lineHandler.CreateStation (bearer token)
//	GET    /metrics       → metrics, when non-nil
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. AllowContentType("application/json") for requests with a body
//  3. WithRequestLogging(logger)
//  4. extra, in the order given
//  5. BearerAuth(resolver) on the protected group
func NewRouter(
	authHandler *AuthHandler,
	lineHandler *LineHandler,
	resolver middleware.TokenResolver,
	logger *zap.Logger,
	metrics http.Handler,
	extra ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(extra...)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Post("/members", authHandler.Register)
	r.Post("/login/token", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(resolver))

		r.Get("/members/me", authHandler.Me)

		r.Route("/lines", func(r chi.Router) {
			r.Get("/", lineHandler.List)
			r.Post("/", lineHandler.Create)
			r.Delete("/{id}", lineHandler.Delete)
		})

		r.Get("/stations", lineHandler.Stations)
		r.Post("/stations", lineHandler.CreateStation)
	})

	return r
}
