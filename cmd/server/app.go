package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/itinerator-api/internal/api"
	"github.com/phrazzld/itinerator-api/internal/api/middleware"
	"github.com/phrazzld/itinerator-api/internal/config"
	"github.com/phrazzld/itinerator-api/internal/platform/postgres"
	"github.com/phrazzld/itinerator-api/internal/platform/ratelimit"
	"github.com/phrazzld/itinerator-api/internal/service"
	"github.com/phrazzld/itinerator-api/internal/service/auth"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// redis is nil when login throttling is disabled.
	redis   *redis.Client
	limiter middleware.Limiter

	jwtService auth.JWTService

	users       service.UserService
	itineraries service.ItineraryService
	activities  service.ActivityService
	lodgings    service.LodgingService
	travels     service.TravelService
}

// newApplication wires stores, services and the optional rate limiter. The
// database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, logger)
	itineraryStore := postgres.NewPostgresItineraryStore(db, logger)
	activityStore := postgres.NewPostgresActivityStore(db, logger)
	lodgingStore := postgres.NewPostgresLodgingStore(db, logger)
	travelStore := postgres.NewPostgresTravelStore(db, logger)
	tx := store.NewDBTransactor(db)

	if err := app.initServices(cfg, tx, userStore, itineraryStore, activityStore, lodgingStore, travelStore); err != nil {
		return nil, err
	}

	if cfg.RateLimit.RedisURL != "" {
		limiter, client, err := ratelimit.New(ctx, cfg.RateLimit.RedisURL,
			cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		app.limiter = limiter
		app.redis = client
		logger.Info("Login rate limiting enabled",
			"per_minute", cfg.RateLimit.LoginPerMinute,
			"burst", cfg.RateLimit.LoginBurst)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

func (app *application) initServices(
	cfg *config.Config,
	tx store.Transactor,
	users store.UserStore,
	itineraries store.ItineraryStore,
	activities store.ActivityStore,
	lodgings store.LodgingStore,
	travels store.TravelStore,
) error {
	var err error

	app.users, err = service.NewUserService(users, tx,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost), auth.NewBcryptVerifier(), app.logger)
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	relations, err := service.NewRelations(itineraries, users, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create relationship maintainer: %w", err)
	}

	app.itineraries, err = service.NewItineraryService(itineraries, users, relations, tx, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create itinerary service: %w", err)
	}

	app.activities, err = service.NewActivityService(activities, itineraries, users, relations, tx, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create activity service: %w", err)
	}

	app.lodgings, err = service.NewLodgingService(lodgings, itineraries, users, relations, tx, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create lodging service: %w", err)
	}

	app.travels, err = service.NewTravelService(travels, itineraries, users, relations, tx, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create travel service: %w", err)
	}

	return nil
}

// apiRoutes builds the handlers mounted under /api/v1.
func (app *application) apiRoutes() api.Routes {
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService, app.logger)

	routes := api.Routes{
		Auth:        api.NewAuthHandler(app.users, app.jwtService, app.logger),
		Users:       api.NewUserHandler(app.users, app.logger),
		Itineraries: api.NewItineraryHandler(app.itineraries, app.logger),
		Activities:  api.NewActivityHandler(app.activities, app.logger),
		Lodgings:    api.NewLodgingHandler(app.lodgings, app.logger),
		Travels:     api.NewTravelHandler(app.travels, app.logger),
		Authn:       authMiddleware.Authenticate,
	}
	if app.limiter != nil {
		routes.LoginLimit = middleware.RateLimitByIP(app.limiter, app.logger)
	}
	return routes
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database and Redis connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
