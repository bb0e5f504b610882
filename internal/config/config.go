package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Labels provider mode constants
const (
	LabelsProviderRekognition = "rekognition"
	LabelsProviderHTTPAPI     = "http_api"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Revocation cache store constants
const (
	RevocationStoreMemory = "memory"
	RevocationStoreRedis  = "redis"
)

// CallbackPath is the fixed path appended to BaseURL to form the OAuth
// redirect URI registered with the authorization server.
const CallbackPath = "/api/auth/callback"

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// OAuth settings
	OAuthClientID string
	OAuthAuthURL  string // Authorization endpoint (default: Google)
	OAuthTokenURL string
	OAuthScopes   []string
	AppScheme     string // Custom URI scheme the native app registers

	// State cookie settings
	StateCookieMaxAge time.Duration

	// JWT settings
	JWTSecret              string
	JWTIssuer              string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration

	// Refresh token revocation (optional denylist)
	RevocationEnabled bool
	RevocationStore   string // "memory" or "redis"

	// Redis (shared by rate limiting and revocation cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	AuthorizeRateLimit       int    // requests per minute
	RefreshRateLimit         int    // requests per minute
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string

	// Classifier settings
	AWSRegion          string
	ReportsTable       string
	ReportsPrefix      string
	LabelsProviderMode string // "rekognition" or "http_api"
	TriggerTimeout     time.Duration

	// HTTP API labels provider
	LabelsAPIURL                string
	LabelsAPITimeout            time.Duration
	LabelsAPIInsecureSkipVerify bool
	LabelsAPIAuthMode           string // "none", "simple", or "hmac"
	LabelsAPIAuthSecret         string
	LabelsAPIAuthHeader         string
	LabelsAPIMaxRetries         int // 0 by default: the platform owns retries
	LabelsAPIRetryDelay         time.Duration
	LabelsAPIMaxRetryDelay      time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", ""),
		IsProduction: getEnv("ENV", "development") == "production",

		// OAuth settings
		OAuthClientID: getEnv("OAUTH_CLIENT_ID", ""),
		OAuthAuthURL: getEnv(
			"OAUTH_AUTH_URL",
			"https://accounts.google.com/o/oauth2/v2/auth",
		),
		OAuthTokenURL: getEnv("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		OAuthScopes:   getEnvSlice("OAUTH_SCOPES", []string{"openid", "email", "profile"}),
		AppScheme:     getEnv("APP_SCHEME", ""),

		StateCookieMaxAge: getEnvDuration("STATE_COOKIE_MAX_AGE", 10*time.Minute),

		// JWT settings
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTIssuer:             getEnv("JWT_ISSUER", "cleantown-auth"),
		AccessTokenExpiration: getEnvDuration("ACCESS_TOKEN_EXPIRATION", 900*time.Second),
		RefreshTokenExpiration: getEnvDuration(
			"REFRESH_TOKEN_EXPIRATION",
			720*time.Hour,
		), // 30 days

		// Revocation
		RevocationEnabled: getEnvBool("REVOCATION_ENABLED", false),
		RevocationStore:   getEnv("REVOCATION_STORE", RevocationStoreMemory),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// Rate limiting
		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", false),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		AuthorizeRateLimit:       getEnvInt("AUTHORIZE_RATE_LIMIT", 60),
		RefreshRateLimit:         getEnvInt("REFRESH_RATE_LIMIT", 30),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		// Metrics
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		// Classifier
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		ReportsTable:       getEnv("REPORTS_TABLE", ""),
		ReportsPrefix:      getEnv("REPORTS_PREFIX", "reports/"),
		LabelsProviderMode: getEnv("LABELS_PROVIDER", LabelsProviderRekognition),
		TriggerTimeout:     getEnvDuration("TRIGGER_TIMEOUT", 60*time.Second),

		// HTTP API labels provider
		LabelsAPIURL:                getEnv("LABELS_API_URL", ""),
		LabelsAPITimeout:            getEnvDuration("LABELS_API_TIMEOUT", 10*time.Second),
		LabelsAPIInsecureSkipVerify: getEnvBool("LABELS_API_INSECURE_SKIP_VERIFY", false),
		LabelsAPIAuthMode:           getEnv("LABELS_API_AUTH_MODE", "none"),
		LabelsAPIAuthSecret:         getEnv("LABELS_API_AUTH_SECRET", ""),
		LabelsAPIAuthHeader:         getEnv("LABELS_API_AUTH_HEADER", "X-API-Secret"),
		LabelsAPIMaxRetries:         getEnvInt("LABELS_API_MAX_RETRIES", 0),
		LabelsAPIRetryDelay:         getEnvDuration("LABELS_API_RETRY_DELAY", 1*time.Second),
		LabelsAPIMaxRetryDelay:      getEnvDuration("LABELS_API_MAX_RETRY_DELAY", 10*time.Second),
	}
}

// Validate checks settings required by the auth server.
// Missing required values are fatal at startup, never a request-time error.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BASE_URL is required")
	}
	if c.OAuthClientID == "" {
		return errors.New("OAUTH_CLIENT_ID is required")
	}
	if c.AppScheme == "" {
		return errors.New("APP_SCHEME is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE value: %q (must be: memory, redis)",
			c.RateLimitStore)
	}
	switch c.RevocationStore {
	case RevocationStoreMemory, RevocationStoreRedis:
	default:
		return fmt.Errorf("invalid REVOCATION_STORE value: %q (must be: memory, redis)",
			c.RevocationStore)
	}
	return nil
}

// ValidateClassifier checks settings required by the classification trigger.
func (c *Config) ValidateClassifier() error {
	if c.ReportsTable == "" {
		return errors.New("REPORTS_TABLE is required")
	}
	switch c.LabelsProviderMode {
	case LabelsProviderRekognition:
	case LabelsProviderHTTPAPI:
		if c.LabelsAPIURL == "" {
			return errors.New("LABELS_API_URL is required when LABELS_PROVIDER=http_api")
		}
	default:
		return fmt.Errorf("invalid LABELS_PROVIDER value: %q (must be: rekognition, http_api)",
			c.LabelsProviderMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
