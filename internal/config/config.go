package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigin is echoed in Access-Control-Allow-Origin.
	AllowedOrigin string `mapstructure:"allowed_origin" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes defaults to seven days.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// ClockSkewSeconds is the leeway applied when checking exp/iat. Zero means exact.
	ClockSkewSeconds int `mapstructure:"clock_skew_seconds" validate:"gte=0"`
	BcryptCost       int `mapstructure:"bcrypt_cost"        validate:"gte=4,lte=31"`
}

// RateLimitConfig configures the optional Redis-backed login throttle.
// An empty RedisURL disables throttling.
type RateLimitConfig struct {
	RedisURL       string `mapstructure:"redis_url"        validate:"omitempty,url"`
	LoginPerMinute int    `mapstructure:"login_per_minute" validate:"gte=0"`
	LoginBurst     int    `mapstructure:"login_burst"      validate:"gte=0"`
}
