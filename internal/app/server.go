package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jouiet/VocalIA-sub010/internal/app/health"
	"github.com/Jouiet/VocalIA-sub010/internal/app/middleware"
	"github.com/Jouiet/VocalIA-sub010/internal/app/routes"
	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Server is the HTTP transport. Business logic lives in the services.
type Server struct {
	config     *cfg.Config
	httpServer *http.Server
	router     *gin.Engine
	logger     logger.Logger
}

// NewServer creates the HTTP server from the provider's dependencies.
func NewServer(provider *Provider) *Server {
	if provider.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: provider.Config,
		logger: provider.Infra.Logger,
	}

	var (
		sessions oauth2.LoginSessionIssuer
		reader   routes.SessionReader
	)
	if provider.Services.Sessions != nil {
		sessions = provider.Services.Sessions
		reader = provider.Services.Sessions
	}

	s.router = newRouter(routerDeps{
		serviceName: provider.Config.Observability.ServiceName,
		checker:     newChecker(provider.Infra),
		metrics:     provider.Infra.MetricsHandler,
		flows:       provider.Services.Gateway,
		sessions:    sessions,
		sessionRead: reader,
		logger:      provider.Infra.Logger,
	})
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.HTTPServer.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.HTTPServer.ReadTimeout,
		WriteTimeout: s.config.HTTPServer.WriteTimeout,
	}
	return s
}

type routerDeps struct {
	serviceName string
	checker     *health.Checker
	metrics     http.Handler
	flows       oauth2.Flows
	sessions    oauth2.LoginSessionIssuer
	sessionRead routes.SessionReader
	logger      logger.Logger
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.serviceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(d.logger))

	routes.SetupInfra(r, d.checker, d.metrics)
	routes.SetupOAuth(r, d.flows, d.sessions, d.logger)
	if d.sessionRead != nil {
		routes.SetupSession(r, d.sessionRead, d.logger)
	}

	return r
}

// newChecker only hands non-nil dependencies to the checker so typed nils
// never reach an interface.
func newChecker(infra *Infrastructure) *health.Checker {
	var (
		dbc    health.DBChecker
		cachec health.CacheChecker
		kafkac health.KafkaChecker
	)
	if infra.DB != nil {
		dbc = infra.DB
	}
	if infra.Cache != nil {
		cachec = infra.Cache
	}
	if infra.Producer != nil {
		kafkac = infra.Producer
	}
	return health.NewChecker(dbc, cachec, kafkac, infra.Logger).WithIdentity("oauth-gateway", Version)
}

// Run starts the HTTP server and blocks until it shuts down.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "HTTP server listening",
		logger.Field{Key: "addr", Value: s.httpServer.Addr})

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server. Infrastructure is closed by the
// Provider.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
	}

	s.logger.Info(ctx, "HTTP server shutdown complete")
	return nil
}
