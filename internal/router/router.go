package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-booking/internal/handler/health"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
)

// Handler is a resource handler mounted under /api/v1. Each handler picks
// the auth requirements of its own routes.
type Handler interface {
	RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware)
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	RateIdleTTL      time.Duration
	RequestTimeout   time.Duration
	AllowedOrigins   []string
	MaxBodyBytes     int64
	MaxUploadBytes   int64
	CacheMaxAge      int
	Release          bool
}

type Router struct {
	config   RouterConfig
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	health   *health.Handler
	handlers []Handler
	registry *prometheus.Registry
}

func NewRouter(
	config RouterConfig,
	logger zerolog.Logger,
	registry *prometheus.Registry,
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	handlers ...Handler,
) *Router {
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if config.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = config.MaxUploadBytes
	}

	r := &Router{
		config:   config,
		engine:   engine,
		auth:     auth,
		health:   healthH,
		handlers: handlers,
		registry: registry,
	}

	engine.Use(
		middleware.RequestID(logger),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.NewHTTPMetrics(registry).Middleware(),
		cors.New(corsConfig(config.AllowedOrigins)),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.Release)),
	)

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	if config.MaxUploadBytes > 0 {
		sizeLimit.MaxUploadSize = config.MaxUploadBytes
	}
	engine.Use(middleware.SizeLimit(sizeLimit))

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:    config.RateLimit,
			Burst:   config.RateBurst,
			IdleTTL: config.RateIdleTTL,
		})
		engine.Use(limiter.RateLimit())
	}

	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(config.RequestTimeout))
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	r.health.RegisterRoutes(&r.engine.RouterGroup)

	cache := middleware.DefaultCacheConfig()
	cache.MaxAge = r.config.CacheMaxAge

	api := r.engine.Group("/api/v1")
	api.Use(middleware.Version("1.0"), middleware.Cache(cache))

	r.health.RegisterRoutes(api)
	for _, h := range r.handlers {
		h.RegisterRoutes(api, r.auth)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderXRequestID},
		ExposeHeaders: []string{middleware.HeaderXRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
