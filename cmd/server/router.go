package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/itinerator-api/internal/api"
	apiMiddleware "github.com/phrazzld/itinerator-api/internal/api/middleware"
)

// setupRouter creates the application router with middleware, the health
// check and every API route.
func (app *application) setupRouter() http.Handler {
	return newRouter(app, app.apiRoutes())
}

func newRouter(app *application, routes api.Routes) http.Handler {
	r := chi.NewRouter()

	cors := apiMiddleware.DefaultCORSConfig()
	if app.config.Server.AllowedOrigin != "" {
		cors.AllowedOrigin = app.config.Server.AllowedOrigin
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(cors))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Route("/api/v1", routes.Mount)

	return r
}
