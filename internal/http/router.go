// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, session identity, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/plateful/go-recipe-backend/internal/config"
	"github.com/plateful/go-recipe-backend/internal/http/handlers"
	"github.com/plateful/go-recipe-backend/internal/http/middleware"
	"github.com/plateful/go-recipe-backend/internal/services"
	"github.com/plateful/go-recipe-backend/internal/store"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), session identity and
// rate limiting, CORS and security headers, health and metrics endpoints, and
// then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Session identity (before rate limiter so buckets key by session)
//  8. Rate limiter (per session/IP)
//  9. CORS, gzip, and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, invoker services.Invoker, images services.ImageGenerator, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Session identity (before rate limiting)
	r.Use(middleware.Session(middleware.SessionOptions{MaxLen: 64}))

	// 8) Token-bucket rate limiter per session/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderSessionID},
			ExposeHeaders:    []string{"X-Request-ID", middleware.HeaderSessionID, "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderSessionID},
			ExposeHeaders:    []string{"X-Request-ID", middleware.HeaderSessionID, "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Compress responses; recipe and history payloads are text-heavy.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← store/invoker
	st := &store.SessionStore{DB: db}
	gen := cfg.Generation

	recipeSvc := &services.RecipeService{
		Invoker:            invoker,
		Store:              st,
		Models:             cfg.Models.Recipe,
		Temperature:        gen.Temperature,
		MaxTokens:          gen.MaxTokens,
		GenerationAttempts: gen.Attempts,
	}
	pairingSvc := &services.PairingService{
		Invoker:     invoker,
		Store:       st,
		Recipes:     recipeSvc,
		Models:      cfg.Models.Recipe,
		Temperature: gen.Temperature,
		MaxTokens:   gen.MaxTokens,
	}
	chatSvc := &services.ChatService{
		Invoker:         invoker,
		Store:           st,
		Models:          cfg.Models.Chat,
		Temperature:     gen.Temperature,
		MaxTokens:       gen.MaxTokens,
		MaxHistoryTurns: gen.MaxHistoryTurns,
	}
	imageSvc := &services.ImageService{
		Generator: images,
		Store:     st,
		Recipes:   recipeSvc,
		Model:     cfg.Models.Image,
	}
	socialSvc := &services.SocialService{
		Invoker:     invoker,
		Store:       st,
		Recipes:     recipeSvc,
		Models:      cfg.Models.Recipe,
		Temperature: gen.Temperature,
		MaxTokens:   gen.MaxTokens,
	}
	uploadSvc := &services.UploadService{
		Invoker:     invoker,
		Store:       st,
		Recipes:     recipeSvc,
		Models:      cfg.Models.Chat,
		Temperature: gen.Temperature,
		MaxTokens:   gen.MaxTokens,
	}

	h := handlers.New(recipeSvc, pairingSvc, chatSvc, imageSvc, socialSvc, uploadSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Recipes
		api.POST("/recipes", h.GenerateRecipe)
		api.GET("/recipes", h.ListRecipes)
		api.DELETE("/recipes", h.DeleteAllRecipes)
		api.GET("/recipes/:name", h.GetRecipe)
		api.DELETE("/recipes/:name", h.DeleteRecipe)
		api.POST("/recipes/:name/adjust", h.AdjustRecipe)
		api.POST("/recipes/format", h.FormatRecipe)

		// Pairings
		api.POST("/pairings", h.GeneratePairing)
		api.GET("/pairings/:name", h.GetPairing)

		// Chat
		api.POST("/chat", h.Chat)
		api.GET("/chat/:thread", h.ChatHistory)
		api.DELETE("/chat/:thread", h.ClearChat)

		// Images
		api.POST("/images", h.GenerateImage)
		api.GET("/images/:name", h.GetImage)

		// Social posts
		api.POST("/social-posts", h.ComposeSocialPost)

		// Uploads
		api.POST("/uploads", h.SubmitUpload)
		api.GET("/uploads", h.CurrentUpload)
		api.PUT("/uploads/text", h.EditUpload)
		api.POST("/uploads/question", h.AskUpload)
		api.POST("/uploads/save", h.SaveUpload)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
