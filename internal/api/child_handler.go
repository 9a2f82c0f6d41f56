package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/api/shared"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/service"
)

// ChildHandler serves CRUD for one child kind. R is the request body type
// and build turns it into a record with the given ID.
type ChildHandler[T service.ChildRecord, R any] struct {
	children service.ChildService[T]
	build    func(R, uuid.UUID) T
	noun     string
	logger   *slog.Logger
}

func newChildHandler[T service.ChildRecord, R any](
	kind domain.ChildKind,
	children service.ChildService[T],
	build func(R, uuid.UUID) T,
	logger *slog.Logger,
) *ChildHandler[T, R] {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for " + string(kind) + " handler")
	}
	return &ChildHandler[T, R]{
		children: children,
		build:    build,
		noun:     string(kind),
		logger:   logger.With(slog.String("component", string(kind)+"_handler")),
	}
}

// NewActivityHandler creates the handler for /activity.
func NewActivityHandler(svc service.ActivityService, logger *slog.Logger) *ChildHandler[*domain.Activity, ActivityRequest] {
	return newChildHandler(domain.ChildActivity, svc, ActivityRequest.toDomain, logger)
}

// NewLodgingHandler creates the handler for /lodging.
func NewLodgingHandler(svc service.LodgingService, logger *slog.Logger) *ChildHandler[*domain.Lodging, LodgingRequest] {
	return newChildHandler(domain.ChildLodging, svc, LodgingRequest.toDomain, logger)
}

// NewTravelHandler creates the handler for /travel.
func NewTravelHandler(svc service.TravelService, logger *slog.Logger) *ChildHandler[*domain.Travel, TravelRequest] {
	return newChildHandler(domain.ChildTravel, svc, TravelRequest.toDomain, logger)
}

// Routes registers the CRUD routes on r behind authn.
func (h *ChildHandler[T, R]) Routes(authn func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}
}

// Create handles POST /<kind>.
func (h *ChildHandler[T, R]) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}

	var req R
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	created, err := h.children.Create(r.Context(), caller.Username, h.build(req, uuid.Nil))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create "+h.noun)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// Get handles GET /<kind>/{id}.
func (h *ChildHandler[T, R]) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	child, err := h.children.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load "+h.noun)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, child)
}

// Update handles PUT /<kind>/{id}. The body replaces every field and the
// response is the record as stored.
func (h *ChildHandler[T, R]) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}
	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	var req R
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	updated, err := h.children.Update(r.Context(), caller.Username, h.build(req, id))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update "+h.noun)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /<kind>/{id}.
func (h *ChildHandler[T, R]) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}
	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	if err := h.children.Delete(r.Context(), caller.Username, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete "+h.noun)
		return
	}

	shared.RespondNoContent(w)
}
