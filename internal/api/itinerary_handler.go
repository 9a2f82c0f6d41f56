package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/itinerator-api/internal/api/shared"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/service"
)

// ItineraryHandler handles itinerary CRUD and the per-user listing.
type ItineraryHandler struct {
	itineraries service.ItineraryService
	logger      *slog.Logger
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(itineraries service.ItineraryService, logger *slog.Logger) *ItineraryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ItineraryHandler")
	}
	return &ItineraryHandler{
		itineraries: itineraries,
		logger:      logger.With(slog.String("component", "itinerary_handler")),
	}
}

// Routes registers the itinerary routes on r behind authn. Unmatched paths
// fall through to r's NotFound handler without authentication.
func (h *ItineraryHandler) Routes(authn func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/", h.Create)
			r.Get("/db/{username}", h.ListByUsername)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}
}

// Create handles POST /itinerary.
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}

	var req ItineraryRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	it, err := h.itineraries.Create(r.Context(), caller.Username, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create itinerary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, it)
}

// Get handles GET /itinerary/{id}.
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	it, err := h.itineraries.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load itinerary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, it)
}

// Update handles PUT /itinerary/{id} and returns the persisted itinerary.
func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}
	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	var req ItineraryRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	it, err := h.itineraries.Update(r.Context(), caller.Username, id, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update itinerary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, it)
}

// Delete handles DELETE /itinerary/{id}.
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}
	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	if err := h.itineraries.Delete(r.Context(), caller.Username, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete itinerary")
		return
	}

	shared.RespondNoContent(w)
}

// ListByUsername handles GET /itinerary/db/{username} and
// GET /users/db/{username}.
func (h *ItineraryHandler) ListByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	list, err := h.itineraries.ListByUsername(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list itineraries")
		return
	}
	if list == nil {
		list = []*domain.Itinerary{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, list)
}
