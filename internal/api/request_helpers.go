package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/api/shared"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/redact"
	"github.com/phrazzld/itinerator-api/internal/service/auth"
)

// NotFound answers any unmatched route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Not Found")
}

// callerFromContext extracts the identity placed in the context by the
// authentication middleware, writing a 401 when it is missing.
func callerFromContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) (auth.Identity, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		log.Warn("identity not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return auth.Identity{}, false
	}
	return identity, true
}

// pathID parses the {id} path parameter. An ID that cannot be parsed cannot
// name a record, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Debug("unparseable id in path", slog.String("value", raw))
		NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate reads the JSON body into dst and runs the struct
// validator, writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(w, r, dst); err != nil {
		log.Debug("invalid request body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
