package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jouiet/VocalIA-sub010/internal/app/bootstrap"
	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/internal/service/event"
	"github.com/Jouiet/VocalIA-sub010/internal/service/session"
	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
	"github.com/Jouiet/VocalIA-sub010/pkg/db"
	"github.com/Jouiet/VocalIA-sub010/pkg/kafka"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

// Version is reported by /health and the OTel resource. Set with -ldflags.
var Version = "dev"

// Infrastructure holds stateful resources that need an orderly shutdown.
type Infrastructure struct {
	DB             db.DB
	Cache          cache.Cache
	Producer       *kafka.Producer
	Vault          oauth2.CredentialVault
	Logger         logger.Logger
	MetricsHandler http.Handler
	shutdownOTel   func(context.Context) error
}

// Close releases resources in reverse order of initialization.
func (i *Infrastructure) Close(ctx context.Context) error {
	var errs []error

	if i.Producer != nil {
		i.Logger.Info(ctx, "Closing kafka producer")
		if err := i.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka shutdown: %w", err))
		}
	}

	if i.DB != nil {
		i.Logger.Info(ctx, "Closing database connections")
		if err := i.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database shutdown: %w", err))
		}
	}

	if i.Cache != nil {
		i.Logger.Info(ctx, "Closing cache connections")
		if err := i.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache shutdown: %w", err))
		}
	}

	if i.shutdownOTel != nil {
		i.Logger.Info(ctx, "Shutting down observability")
		if err := i.shutdownOTel(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("infrastructure shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// Services holds the domain components built on Infrastructure.
type Services struct {
	Gateway  *oauth2.Gateway
	Events   *event.Service
	Sessions *session.LoginIssuer
}

// Provider is the composition root.
type Provider struct {
	Infra    *Infrastructure
	Services *Services
	Config   *cfg.Config
}

// NewProvider creates and initializes all application dependencies.
func NewProvider(ctx context.Context, config *cfg.Config) (*Provider, error) {
	appLogger := logger.NewZeroLog(config.AppEnv)
	appLogger.Info(ctx, "Initializing application provider...")

	shutdownOTel, metricsHandler, err := bootstrap.InitOtel(ctx, &config.Observability, Version)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}

	infra := &Infrastructure{
		Logger:         appLogger,
		MetricsHandler: metricsHandler,
		shutdownOTel:   shutdownOTel,
	}

	services, err := initServices(ctx, config, infra)
	if err != nil {
		if closeErr := infra.Close(ctx); closeErr != nil {
			appLogger.Warn(ctx, "cleanup after failed init", logger.Err(closeErr))
		}
		return nil, err
	}

	appLogger.Info(ctx, "Application provider initialized successfully",
		logger.Field{Key: "state_store", Value: config.OAuth.StateStore},
		logger.Field{Key: "vault_backend", Value: config.Vault.Backend},
		logger.Field{Key: "events", Value: services.Events != nil},
	)

	return &Provider{Infra: infra, Services: services, Config: config}, nil
}

// initServices fills infra as it goes so a failure can close what was opened.
func initServices(ctx context.Context, config *cfg.Config, infra *Infrastructure) (*Services, error) {
	redis, err := bootstrap.InitCache(ctx, config.Redis)
	if err != nil {
		return nil, fmt.Errorf("cache initialization: %w", err)
	}
	infra.Cache = redis

	credentialVault, dbClient, err := bootstrap.InitVault(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("vault initialization: %w", err)
	}
	infra.Vault = credentialVault
	infra.DB = dbClient

	producer, err := bootstrap.InitKafka(config.Kafka)
	if err != nil {
		return nil, fmt.Errorf("kafka initialization: %w", err)
	}
	infra.Producer = producer

	services := &Services{}
	var publisher oauth2.EventPublisher
	if producer != nil {
		services.Events = event.NewService(producer, config.Kafka.Topic)
		publisher = services.Events
	}

	gw, err := bootstrap.InitGateway(&config.OAuth, redis, credentialVault, publisher, infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("oauth gateway initialization: %w", err)
	}
	services.Gateway = gw

	if redis != nil {
		services.Sessions = session.NewLoginIssuer(session.NewRedisStore(redis), config.Session.TTL, config.Session.SecureCookie)
	}

	return services, nil
}

// Close stops the gateway and releases infrastructure.
func (p *Provider) Close(ctx context.Context) error {
	if p.Services != nil && p.Services.Gateway != nil {
		p.Services.Gateway.Close()
	}
	return p.Infra.Close(ctx)
}
