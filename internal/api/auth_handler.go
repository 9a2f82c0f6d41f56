package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/itinerator-api/internal/api/shared"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/service"
	"github.com/phrazzld/itinerator-api/internal/service/auth"
)

// AuthHandler handles login and token refresh.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.issue(w, r, auth.Identity{Username: user.Username, Email: user.Email}, http.StatusOK)
}

// Refresh handles POST /auth/refresh. The caller must already hold a valid
// token; a new one is issued for the same identity.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := callerFromContext(w, r, log)
	if !ok {
		return
	}

	h.issue(w, r, identity, http.StatusOK)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, identity auth.Identity, status int) {
	token, err := h.jwtService.GenerateToken(r.Context(), identity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("token issued",
		slog.String("username", identity.Username))
	shared.RespondWithJSON(w, r, status, AuthResponse{AuthToken: token})
}
