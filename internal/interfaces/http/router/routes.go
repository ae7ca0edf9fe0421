package router

import (
	"net/http"

	"github.com/acme/invoicing/internal/infrastructure/auth"
	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/acme/invoicing/internal/infrastructure/logger"
	"github.com/acme/invoicing/internal/infrastructure/telemetry"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/acme/invoicing/internal/interfaces/http/handler"
	"github.com/acme/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

// Dependencies are the collaborators the HTTP surface is built from
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Metrics and Gatherer are optional; without them /metrics is not served
	Metrics  telemetry.MetricsRecorder
	Gatherer prometheus.Gatherer

	Sessions  middleware.SessionValidator
	Blacklist auth.TokenBlacklist
	// AuthLimiter throttles sign-up and login per client IP when set
	AuthLimiter *middleware.RateLimiter

	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Invoices  *handler.InvoiceHandler
	Customers *handler.CustomerHandler
}

// NewEngine builds the gin engine with the middleware chain and every route
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(deps.Logger),
		logger.GinMiddleware(deps.Logger, healthPath, metricsPath),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.Telemetry.Enabled {
		engine.Use(
			middleware.Tracing(cfg.Telemetry.ServiceName, healthPath, metricsPath),
			middleware.SpanAttributes(),
		)
	}
	if deps.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(deps.Metrics))
	}

	engine.GET(healthPath, deps.Health.Check)
	if deps.Gatherer != nil {
		engine.GET(metricsPath, gin.WrapH(telemetry.MetricsHandler(deps.Gatherer)))
	}

	session := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		Sessions:       deps.Sessions,
		TokenBlacklist: deps.Blacklist,
		CookieName:     cfg.Cookie.Name,
		Logger:         deps.Logger,
	})

	throttled := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.AuthLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.RateLimit(deps.AuthLimiter), h}
	}

	authGroup := NewDomainGroup("auth", "/auth")
	authGroup.POST("/signup", throttled(deps.Auth.SignUp)...)
	authGroup.POST("/login", throttled(deps.Auth.Login)...)
	authGroup.POST("/logout", session, deps.Auth.Logout)

	invoices := resourceGroup("invoices", "/invoices", session, crud{
		list:   deps.Invoices.List,
		get:    deps.Invoices.GetByID,
		create: deps.Invoices.Create,
		update: deps.Invoices.Update,
		delete: deps.Invoices.Delete,
	})
	customers := resourceGroup("customers", "/customers", session, crud{
		list:   deps.Customers.List,
		get:    deps.Customers.GetByID,
		create: deps.Customers.Create,
		update: deps.Customers.Update,
		delete: deps.Customers.Delete,
	})

	NewRouter(engine).Register(authGroup, invoices, customers).Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	return engine, nil
}

type crud struct {
	list, get, create, update, delete gin.HandlerFunc
}

func resourceGroup(name, prefix string, session gin.HandlerFunc, h crud) *DomainGroup {
	return NewDomainGroup(name, prefix).
		Use(session).
		GET("", h.list).
		POST("", h.create).
		GET("/:id", h.get).
		PUT("/:id", h.update).
		DELETE("/:id", h.delete)
}
