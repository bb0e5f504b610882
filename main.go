//	@title			CleanTown Auth API
//	@version		1.0
//	@description	OAuth sign-in relay and token refresh service for the CleanTown mobile app
//	@termsOfService	http://swagger.io/terms/

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/cleantown/cleantown/internal/auth"
	"github.com/cleantown/cleantown/internal/cache"
	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/handlers"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/middleware"
	"github.com/cleantown/cleantown/internal/token"
	"github.com/cleantown/cleantown/internal/version"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "server":
		runServer()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("CleanTown authentication server")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the auth server")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}

	// Token provider and optional revocation denylist
	tokenProvider := token.NewLocalTokenProvider(cfg)
	denylist := setupDenylist(cfg)

	// OAuth provider and handlers
	oauthProvider := auth.NewProvider(cfg)
	log.Printf("[OAuth] Redirect URI: %s", oauthProvider.RedirectURL())

	authHandler := handlers.NewAuthHandler(oauthProvider, cfg, prometheusMetrics)
	tokenHandler := handlers.NewTokenHandler(tokenProvider, denylist, cfg, prometheusMetrics)

	setupGinMode(cfg)
	r := gin.New()
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint (with optional authentication)
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	rateLimiters := setupRateLimiting(cfg)

	api := r.Group("/api/auth")
	{
		api.GET("/authorize", rateLimiters.authorize, authHandler.Authorize)
		api.GET("/callback", authHandler.Callback)
		api.POST("/refresh", rateLimiters.refresh, tokenHandler.Refresh)
		if denylist != nil {
			api.POST("/revoke", rateLimiters.refresh, tokenHandler.Revoke)
		}
	}

	log.Printf("Auth server starting on %s", cfg.ServerAddr)
	log.Printf("Authorize URL: %s/api/auth/authorize", cfg.BaseURL)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	m := graceful.NewManager()

	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})

	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})

	if denylist != nil {
		m.AddShutdownJob(func() error {
			log.Println("Closing revocation denylist...")
			return denylist.Close()
		})
	}

	<-m.Done()
}

// setupGinMode configures Gin's run mode from the environment
func setupGinMode(cfg *config.Config) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
}

// setupDenylist builds the refresh-token revocation denylist, or returns nil
// when revocation is disabled and refresh stays fully stateless.
func setupDenylist(cfg *config.Config) *token.Denylist {
	if !cfg.RevocationEnabled {
		log.Println("Token revocation disabled (stateless refresh)")
		return nil
	}

	switch cfg.RevocationStore {
	case config.RevocationStoreRedis:
		c, err := cache.NewRueidisCache[bool](
			context.Background(),
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"revoked:",
		)
		if err != nil {
			log.Fatalf("Failed to initialize redis revocation cache: %v", err)
		}
		log.Printf("Token revocation enabled (store: redis, addr=%s, db=%d)",
			cfg.RedisAddr, cfg.RedisDB)
		return token.NewDenylist(c)
	default:
		log.Println("Token revocation enabled (store: memory, single instance only)")
		return token.NewDenylist(cache.NewMemoryCache[bool]())
	}
}

// rateLimitMiddlewares holds rate limiting middlewares for the auth endpoints
type rateLimitMiddlewares struct {
	authorize gin.HandlerFunc
	refresh   gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(cfg *config.Config) rateLimitMiddlewares {
	noOpMiddleware := func(c *gin.Context) { c.Next() }
	if !cfg.EnableRateLimit {
		return rateLimitMiddlewares{
			authorize: noOpMiddleware,
			refresh:   noOpMiddleware,
		}
	}

	log.Printf("Rate limiting enabled (store: %s)", cfg.RateLimitStore)

	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         middleware.RateLimitStoreType(cfg.RateLimitStore),
			RedisAddr:         cfg.RedisAddr,
			RedisPassword:     cfg.RedisPassword,
			RedisDB:           cfg.RedisDB,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to create rate limiter for %s: %v", endpoint, err)
		}
		return limiter
	}

	return rateLimitMiddlewares{
		authorize: createLimiter(cfg.AuthorizeRateLimit, "/api/auth/authorize"),
		refresh:   createLimiter(cfg.RefreshRateLimit, "/api/auth/refresh"),
	}
}
