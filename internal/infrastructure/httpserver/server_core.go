package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
	customMiddleware "github.com/propgate/propgate/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	Environment  string
	// JobTriggerToken is the shared secret the external cron presents on
	// the dunning-run endpoint.
	JobTriggerToken string
}

type ServerDeps struct {
	AuthService        ports.AuthService
	TenantService      ports.TenantService
	PortfolioService   ports.PortfolioService
	DunningService     ports.DunningService
	WebhookService     ports.BillingWebhookService
	ExportService      ports.ExportService
	RateLimiterService ports.RateLimiterService
	DB                 sqlx.ExtContext
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo             *echo.Echo
	config           *ServerConfig
	logger           *logrus.Logger
	authService      ports.AuthService
	tenantService    ports.TenantService
	portfolioService ports.PortfolioService
	dunningService   ports.DunningService
	webhookService   ports.BillingWebhookService
	exportService    ports.ExportService
	middleware       *customMiddleware.MiddlewareCollection
	healthCheckers   []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:             e,
		config:           serverConfig,
		logger:           logger,
		authService:      deps.AuthService,
		tenantService:    deps.TenantService,
		portfolioService: deps.PortfolioService,
		dunningService:   deps.DunningService,
		webhookService:   deps.WebhookService,
		exportService:    deps.ExportService,
		healthCheckers:   deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.TenantService,
			deps.RateLimiterService,
			deps.DB,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// httpError maps service errors onto HTTP statuses. Sentinel errors carry
// the status, everything else is a 500 with a generic message.
func httpError(err error) error {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, ports.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ports.ErrCooldown):
		return echo.NewHTTPError(http.StatusConflict, "a dunning record was issued recently for this lease")
	case errors.Is(err, ports.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
