package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/itinerator-api/internal/domain"
)

// Routes bundles the handlers and middleware mounted under /api/v1.
type Routes struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Itineraries *ItineraryHandler
	Activities  *ChildHandler[*domain.Activity, ActivityRequest]
	Lodgings    *ChildHandler[*domain.Lodging, LodgingRequest]
	Travels     *ChildHandler[*domain.Travel, TravelRequest]

	// Authn guards every protected route.
	Authn func(http.Handler) http.Handler

	// LoginLimit wraps POST /auth/login. Nil disables throttling.
	LoginLimit func(http.Handler) http.Handler
}

// Mount registers every API route on r. r's NotFound and MethodNotAllowed
// handlers are set to NotFound first so mounted subrouters inherit them.
func (rt Routes) Mount(r chi.Router) {
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	loginLimit := rt.LoginLimit
	if loginLimit == nil {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", rt.Auth.Login)
		r.With(rt.Authn).Post("/refresh", rt.Auth.Refresh)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", rt.Users.Register)
		r.Group(func(r chi.Router) {
			r.Use(rt.Authn)
			r.Get("/me", rt.Users.Me)
			r.Get("/db/{username}", rt.Itineraries.ListByUsername)
		})
	})

	r.Route("/itinerary", rt.Itineraries.Routes(rt.Authn))
	r.Route("/activity", rt.Activities.Routes(rt.Authn))
	r.Route("/lodging", rt.Lodgings.Routes(rt.Authn))
	r.Route("/travel", rt.Travels.Routes(rt.Authn))
}
