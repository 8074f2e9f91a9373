package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/activity"
	"github.com/jmehdipour/sms-admin/internal/config"
	"github.com/jmehdipour/sms-admin/internal/http/middleware"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/service/admin"
	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
)

// Deps are the collaborators the server is built from.
type Deps struct {
	Repos     repository.Repositories
	Publisher activity.Publisher
	Redis     *redis.Client       // nil disables rate limiting
	Gatherer  prometheus.Gatherer // nil serves the default registry
}

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, deps Deps) *Server {
	// services
	dash := dashboard.New(deps.Repos, cfg.Preview.Variables)
	adm := admin.New(deps.Repos, deps.Publisher)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(cfg.Log.Level))
	e.Use(echoMid.Recover(), echoMid.Logger())

	metricsHandler := promhttp.Handler()
	if deps.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
	}
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(cfg.Admins)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          deps.Redis,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:op:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.GET("/dashboard", dashboardHandler(dash))
	v1.GET("/search", searchHandler(dash))
	v1.POST("/preview", previewHandler(dash))
	v1.GET("/timezones", timezonesHandler())

	v1.GET("/orgs", listOrgsHandler(dash))
	v1.GET("/orgs/:orgId", orgDetailHandler(dash))
	v1.PUT("/orgs/:orgId/sms-enabled", setSMSEnabledHandler(adm))
	v1.GET("/orgs/:orgId/health", orgHealthHandler(dash))
	v1.GET("/orgs/:orgId/templates", orgTemplatesHandler(dash))
	v1.GET("/orgs/:orgId/templates/:templateId", overrideViewHandler(dash))
	v1.POST("/orgs/:orgId/templates/:templateId/preview", overrideViewHandler(dash))
	v1.PUT("/orgs/:orgId/templates/:templateId/override", saveOverrideHandler(adm))
	v1.DELETE("/orgs/:orgId/templates/:templateId/override", deleteOverrideHandler(adm))
	v1.GET("/orgs/:orgId/quiet-hours", getQuietHoursHandler(dash))
	v1.PUT("/orgs/:orgId/quiet-hours", updateQuietHoursHandler(adm))
	v1.GET("/orgs/:orgId/provisioning", listProvisioningHandler(dash))
	v1.POST("/orgs/:orgId/provisioning", triggerProvisioningHandler(adm))

	v1.GET("/templates", listTemplatesHandler(deps.Repos.Templates))
	v1.GET("/templates/:templateId", getTemplateHandler(deps.Repos.Templates))
	v1.PUT("/templates/:templateId", updateTemplateHandler(adm))
	v1.GET("/templates/:templateId/versions", listVersionsHandler(deps.Repos.Versions))

	v1.GET("/logs", listLogsHandler(dash, deps.Repos.Logs))
	v1.GET("/audit", listAuditHandler(dash, deps.Repos.Audit))
	v1.GET("/suppressions", listSuppressionsHandler(dash, deps.Repos.Suppressions))
	v1.GET("/jobs", listJobsHandler(deps.Repos.Jobs))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// ServeHTTP lets the server be driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

func echoLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	}
	return log.INFO
}
