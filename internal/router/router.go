package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/middleware"
	"github.com/jwalitptl/medreminder-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// GuardedHandler mounts routes that need a role guard on some of them.
type GuardedHandler interface {
	RegisterRoutes(*gin.RouterGroup, gin.HandlerFunc)
}

// Handlers groups the resource handlers mounted under /api.
type Handlers struct {
	Health       *handler.Handler
	Auth         Handler
	User         Handler
	Patient      GuardedHandler
	Prescription GuardedHandler
	Medication   GuardedHandler
	Notification GuardedHandler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	Timeout        time.Duration
	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
	MaxBodySize    int64
	MetricsPrefix  string
	Registerer     prometheus.Registerer
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, cfg RouterConfig) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidators()

	if cfg.MetricsPrefix == "" {
		cfg.MetricsPrefix = "medreminder_http"
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = middleware.DefaultMaxBodySize
	}

	r := &Router{
		engine:   gin.New(),
		auth:     auth,
		handlers: handlers,
		config:   cfg,
		metrics:  initRouterMetrics(cfg.Registerer, cfg.MetricsPrefix),
	}

	r.engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(cfg.Timeout),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
	)

	r.setup()
	return r
}

func (r *Router) setup() {
	api := r.engine.Group("/api")
	r.setupHealthCheck(api)

	limited := api.Group("")
	if r.config.RateLimit.Enabled {
		global := middleware.NewRateLimiter(r.config.RateLimit.Requests, r.config.RateLimit.Window, r.config.RateLimit.CleanupPeriod)
		limited.Use(global.RateLimit())
	}
	limited.Use(middleware.SizeLimit(r.config.MaxBodySize))

	public := limited.Group("")
	if r.config.RateLimit.Enabled {
		strict := middleware.NewRateLimiter(r.config.RateLimit.AuthRequests, r.config.RateLimit.Window, r.config.RateLimit.CleanupPeriod)
		public.Use(strict.RateLimit())
	}
	public.Use(middleware.ErrorHandler())
	r.handlers.Auth.RegisterRoutes(public)

	protected := limited.Group("")
	protected.Use(
		middleware.ErrorHandler(),
		r.auth.Authenticate(),
	)
	doctorOnly := r.auth.RequireRole(model.RoleDoctor)
	patientOnly := r.auth.RequireRole(model.RolePatient)

	r.handlers.Patient.RegisterRoutes(protected, doctorOnly)
	r.handlers.Prescription.RegisterRoutes(protected, doctorOnly)
	r.handlers.Medication.RegisterRoutes(protected, patientOnly)
	r.handlers.Notification.RegisterRoutes(protected, doctorOnly)
	r.handlers.User.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.handlers.Health.LivenessCheck)
		health.GET("/ready", r.handlers.Health.ReadinessCheck)
	}
	rg.GET("/metrics", r.handlers.Health.MetricsHandler)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(reg prometheus.Registerer, prefix string) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case code >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
