package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/api/middleware"
	"github.com/phrazzld/itinerator-api/internal/api/shared"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/mocks"
	"github.com/phrazzld/itinerator-api/internal/service"
	"github.com/phrazzld/itinerator-api/internal/service/auth"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

type harness struct {
	users       *mocks.MockUserService
	itineraries *mocks.MockItineraryService
	activities  *mocks.MockChildService[*domain.Activity]
	lodgings    *mocks.MockChildService[*domain.Lodging]
	travels     *mocks.MockChildService[*domain.Travel]
	jwt         *mocks.MockJWTService
	loginLimit  func(http.Handler) http.Handler
}

func newHarness() *harness {
	return &harness{
		users:       &mocks.MockUserService{},
		itineraries: &mocks.MockItineraryService{},
		activities:  &mocks.MockChildService[*domain.Activity]{},
		lodgings:    &mocks.MockChildService[*domain.Lodging]{},
		travels:     &mocks.MockChildService[*domain.Travel]{},
		jwt: &mocks.MockJWTService{
			Token: "issued-token",
			ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
				switch token {
				case aliceToken:
					return &auth.Claims{Username: "alice", Email: "alice@example.com", Subject: "alice"}, nil
				case bobToken:
					return &auth.Claims{Username: "bob", Email: "bob@example.com", Subject: "bob"}, nil
				case "expired":
					return nil, auth.ErrExpiredToken
				default:
					return nil, auth.ErrInvalidSignature
				}
			},
		},
	}
}

func (h *harness) router() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authn := middleware.NewAuthMiddleware(h.jwt, logger)

	routes := Routes{
		Auth:        NewAuthHandler(h.users, h.jwt, logger),
		Users:       NewUserHandler(h.users, logger),
		Itineraries: NewItineraryHandler(h.itineraries, logger),
		Activities:  NewActivityHandler(h.activities, logger),
		Lodgings:    NewLodgingHandler(h.lodgings, logger),
		Travels:     NewTravelHandler(h.travels, logger),
		Authn:       authn.Authenticate,
		LoginLimit:  h.loginLimit,
	}

	r := chi.NewRouter()
	r.Route("/api/v1", routes.Mount)
	return r
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router().ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h := newHarness()
		h.users.RegisterFn = func(_ context.Context, username, email, password string) (*domain.User, error) {
			assert.Equal(t, "Alice", username)
			assert.Equal(t, "password123", password)
			return &domain.User{ID: uuid.New(), Username: "alice", Email: email, HashedPassword: "secret-hash"}, nil
		}

		rec := h.do(t, http.MethodPost, "/api/v1/users", "", RegisterRequest{
			Username: "Alice", Email: "alice@example.com", Password: "password123",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.Username)
		assert.Empty(t, resp.AuthorOf)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		h := newHarness()
		h.users.RegisterFn = func(context.Context, string, string, string) (*domain.User, error) {
			return nil, fmt.Errorf("create: %w", store.ErrUsernameExists)
		}

		rec := h.do(t, http.MethodPost, "/api/v1/users", "", RegisterRequest{
			Username: "alice", Email: "alice@example.com", Password: "password123",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Username already taken", errorMessage(t, rec))
	})

	t.Run("missing email is rejected before the service", func(t *testing.T) {
		h := newHarness()

		rec := h.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
			"username": "alice", "password": "password123",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Email: required field", errorMessage(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newHarness()
		rec := h.do(t, http.MethodPost, "/api/v1/users", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", errorMessage(t, rec))
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		h := newHarness()
		h.users.AuthenticateFn = func(_ context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: username, Email: "alice@example.com"}, nil
		}
		h.jwt.GenerateTokenFn = func(_ context.Context, identity auth.Identity) (string, error) {
			assert.Equal(t, auth.Identity{Username: "alice", Email: "alice@example.com"}, identity)
			return "issued-token", nil
		}

		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "alice", Password: "pw"})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.AuthToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := newHarness()
		h.users.AuthenticateFn = func(context.Context, string, string) (*domain.User, error) {
			return nil, auth.ErrInvalidCredentials
		}

		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "alice", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
	})

	t.Run("throttled", func(t *testing.T) {
		h := newHarness()
		h.loginLimit = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
			})
		}

		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "alice", Password: "pw"})

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestRefreshAndMe(t *testing.T) {
	h := newHarness()
	h.users.GetByUsernameFn = func(_ context.Context, username string) (*domain.User, error) {
		if username != "alice" {
			return nil, store.ErrUserNotFound
		}
		return &domain.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}, nil
	}

	rec := h.do(t, http.MethodPost, "/api/v1/auth/refresh", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authToken":"issued-token"`)

	rec = h.do(t, http.MethodGet, "/api/v1/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = h.do(t, http.MethodGet, "/api/v1/users/me", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGate(t *testing.T) {
	h := newHarness()
	id := uuid.New().String()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token", "Bearer"},
		{"bad signature", "Bearer forged"},
		{"expired", "Bearer expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/"+id, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestItineraryRoutes(t *testing.T) {
	ownerID := uuid.New()
	itID := uuid.New()
	stored := func(title string) *domain.Itinerary {
		return &domain.Itinerary{
			ID: itID, Title: title, UserID: ownerID,
			Travel: []uuid.UUID{}, Lodging: []uuid.UUID{}, Activity: []uuid.UUID{},
		}
	}

	t.Run("create", func(t *testing.T) {
		h := newHarness()
		h.itineraries.CreateFn = func(_ context.Context, caller string, in service.ItineraryInput) (*domain.Itinerary, error) {
			assert.Equal(t, "alice", caller)
			assert.Equal(t, "Lisbon", in.Title)
			assert.True(t, in.Public)
			return stored(in.Title), nil
		}

		rec := h.do(t, http.MethodPost, "/api/v1/itinerary", aliceToken, ItineraryRequest{Title: "Lisbon", Public: true})

		require.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Itinerary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, itID, got.ID)
		assert.Equal(t, ownerID, got.UserID)
	})

	t.Run("create without title", func(t *testing.T) {
		h := newHarness()
		rec := h.do(t, http.MethodPost, "/api/v1/itinerary", aliceToken, ItineraryRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank title is rejected before the service", func(t *testing.T) {
		h := newHarness()

		for _, method := range []string{http.MethodPost, http.MethodPut} {
			path := "/api/v1/itinerary"
			if method == http.MethodPut {
				path += "/" + itID.String()
			}
			rec := h.do(t, method, path, aliceToken, ItineraryRequest{Title: "   "})

			assert.Equal(t, http.StatusBadRequest, rec.Code, method)
			assert.Equal(t, "Invalid Title: must not be blank", errorMessage(t, rec), method)
		}
	})

	t.Run("title is trimmed", func(t *testing.T) {
		h := newHarness()
		h.itineraries.CreateFn = func(_ context.Context, _ string, in service.ItineraryInput) (*domain.Itinerary, error) {
			assert.Equal(t, "Lisbon", in.Title)
			return stored(in.Title), nil
		}

		rec := h.do(t, http.MethodPost, "/api/v1/itinerary", aliceToken, ItineraryRequest{Title: "  Lisbon "})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		h := newHarness()
		h.itineraries.GetFn = func(_ context.Context, id uuid.UUID) (*domain.Itinerary, error) {
			if id == itID {
				return stored("Lisbon"), nil
			}
			return nil, store.ErrItineraryNotFound
		}

		rec := h.do(t, http.MethodGet, "/api/v1/itinerary/"+itID.String(), bobToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = h.do(t, http.MethodGet, "/api/v1/itinerary/"+uuid.NewString(), bobToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Itinerary not found", errorMessage(t, rec))
	})

	t.Run("unparseable id is not found", func(t *testing.T) {
		h := newHarness()
		rec := h.do(t, http.MethodGet, "/api/v1/itinerary/not-a-uuid", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found", errorMessage(t, rec))
	})

	t.Run("update returns the persisted record", func(t *testing.T) {
		h := newHarness()
		h.itineraries.UpdateFn = func(_ context.Context, caller string, id uuid.UUID, in service.ItineraryInput) (*domain.Itinerary, error) {
			assert.Equal(t, itID, id)
			return stored("Porto"), nil
		}

		rec := h.do(t, http.MethodPut, "/api/v1/itinerary/"+itID.String(), aliceToken, ItineraryRequest{Title: "Porto"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"Porto"`)
	})

	t.Run("update by another user is forbidden", func(t *testing.T) {
		h := newHarness()
		h.itineraries.UpdateFn = func(context.Context, string, uuid.UUID, service.ItineraryInput) (*domain.Itinerary, error) {
			return nil, service.ErrNotOwner
		}

		rec := h.do(t, http.MethodPut, "/api/v1/itinerary/"+itID.String(), bobToken, ItineraryRequest{Title: "Mine"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		h := newHarness()
		h.itineraries.DeleteFn = func(_ context.Context, caller string, id uuid.UUID) error {
			if id != itID {
				return store.ErrItineraryNotFound
			}
			return nil
		}

		rec := h.do(t, http.MethodDelete, "/api/v1/itinerary/"+itID.String(), aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = h.do(t, http.MethodDelete, "/api/v1/itinerary/"+uuid.NewString(), aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete with failed companion write", func(t *testing.T) {
		h := newHarness()
		h.itineraries.DeleteFn = func(context.Context, string, uuid.UUID) error {
			return fmt.Errorf("%w: unlink authored: %w", service.ErrCompanionWrite, store.ErrUserNotFound)
		}

		rec := h.do(t, http.MethodDelete, "/api/v1/itinerary/"+itID.String(), aliceToken, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	for _, path := range []string{"/api/v1/itinerary/db/alice", "/api/v1/users/db/alice"} {
		t.Run("list "+path, func(t *testing.T) {
			h := newHarness()
			h.itineraries.ListByUsernameFn = func(_ context.Context, username string) ([]*domain.Itinerary, error) {
				assert.Equal(t, "alice", username)
				return nil, nil
			}

			rec := h.do(t, http.MethodGet, path, bobToken, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}

	t.Run("list for unknown user", func(t *testing.T) {
		h := newHarness()
		h.itineraries.ListByUsernameFn = func(context.Context, string) ([]*domain.Itinerary, error) {
			return nil, store.ErrUserNotFound
		}

		rec := h.do(t, http.MethodGet, "/api/v1/itinerary/db/ghost", aliceToken, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestActivityRoutes(t *testing.T) {
	itID := uuid.New()

	t.Run("create links to the given itinerary", func(t *testing.T) {
		h := newHarness()
		h.activities.CreateFn = func(_ context.Context, caller string, a *domain.Activity) (*domain.Activity, error) {
			assert.Equal(t, "alice", caller)
			require.NotNil(t, a.ItineraryID)
			assert.Equal(t, itID, *a.ItineraryID)
			a.ID = uuid.New()
			return a, nil
		}

		rec := h.do(t, http.MethodPost, "/api/v1/activity", aliceToken, map[string]interface{}{
			"address": "Rua Augusta", "itinerary": itID,
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Activity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEqual(t, uuid.Nil, got.ID)
		assert.Equal(t, "Rua Augusta", got.Address)
	})

	t.Run("create under a missing itinerary", func(t *testing.T) {
		h := newHarness()
		h.activities.CreateFn = func(context.Context, string, *domain.Activity) (*domain.Activity, error) {
			return nil, store.ErrItineraryNotFound
		}

		rec := h.do(t, http.MethodPost, "/api/v1/activity", aliceToken, map[string]interface{}{"itinerary": itID})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create with failed companion write", func(t *testing.T) {
		h := newHarness()
		h.activities.CreateFn = func(context.Context, string, *domain.Activity) (*domain.Activity, error) {
			return nil, fmt.Errorf("%w: link activity: %w", service.ErrCompanionWrite, store.ErrItineraryNotFound)
		}

		rec := h.do(t, http.MethodPost, "/api/v1/activity", aliceToken, map[string]interface{}{"itinerary": itID})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to update related records", errorMessage(t, rec))
	})

	t.Run("update uses the path id", func(t *testing.T) {
		h := newHarness()
		id := uuid.New()
		h.activities.UpdateFn = func(_ context.Context, _ string, a *domain.Activity) (*domain.Activity, error) {
			assert.Equal(t, id, a.ID)
			return a, nil
		}

		rec := h.do(t, http.MethodPut, "/api/v1/activity/"+id.String(), aliceToken, map[string]interface{}{
			"notes": "bring sunscreen",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), id.String())
	})

	t.Run("delete not owner", func(t *testing.T) {
		h := newHarness()
		h.activities.DeleteFn = func(context.Context, string, uuid.UUID) error {
			return service.ErrNotOwner
		}

		rec := h.do(t, http.MethodDelete, "/api/v1/activity/"+uuid.NewString(), bobToken, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLodgingAndTravelRoutes(t *testing.T) {
	h := newHarness()
	lodgingID := uuid.New()
	travelID := uuid.New()

	h.lodgings.GetFn = func(_ context.Context, id uuid.UUID) (*domain.Lodging, error) {
		if id == lodgingID {
			return &domain.Lodging{ID: id, Confirmation: "ABC123"}, nil
		}
		return nil, store.ErrLodgingNotFound
	}
	h.travels.CreateFn = func(_ context.Context, _ string, tr *domain.Travel) (*domain.Travel, error) {
		tr.ID = travelID
		return tr, nil
	}

	rec := h.do(t, http.MethodGet, "/api/v1/lodging/"+lodgingID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirmation":"ABC123"`)

	rec = h.do(t, http.MethodGet, "/api/v1/lodging/"+uuid.NewString(), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Lodging not found", errorMessage(t, rec))

	rec = h.do(t, http.MethodPost, "/api/v1/travel", aliceToken, map[string]interface{}{
		"depart": map[string]string{"location": "LIS", "mode": "flight"},
		"arrive": map[string]string{"location": "OPO"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Travel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, travelID, got.ID)
	assert.Equal(t, "LIS", got.Depart.Location)
	assert.Equal(t, "OPO", got.Arrive.Location)
}

func TestUnmatchedRoutes(t *testing.T) {
	h := newHarness()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/activity/one/two"},
		{http.MethodGet, "/api/v1/nowhere"},
		{http.MethodPatch, "/api/v1/itinerary/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := h.do(t, tt.method, tt.path, "", nil)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
		})
	}
}
