package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

type Checker struct {
	db      DBChecker
	cache   CacheChecker
	kafka   KafkaChecker
	logger  logger.Logger
	service string
	version string
}

type DBChecker interface {
	PingContext(ctx context.Context) error
}

type CacheChecker interface {
	Ping(ctx context.Context) error
}

type KafkaChecker interface {
	Ping(ctx context.Context) error
}

// NewChecker builds a checker; nil dependencies are skipped by readiness.
func NewChecker(db DBChecker, cache CacheChecker, kafka KafkaChecker, logger logger.Logger) *Checker {
	return &Checker{
		db:      db,
		cache:   cache,
		kafka:   kafka,
		logger:  logger,
		service: "oauth-gateway",
		version: "dev",
	}
}

// WithIdentity sets the service name and version reported by /health.
func (h *Checker) WithIdentity(service, version string) *Checker {
	h.service = service
	h.version = version
	return h
}

type Status struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type Info struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *Checker) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Info{Status: "ok", Service: h.service, Version: h.version})
}

func (h *Checker) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, Status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Checker) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	probe := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			h.logger.Warn(ctx, "readiness check failed",
				logger.Field{Key: "dependency", Value: name}, logger.Err(err))
			checks[name] = "unhealthy: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "healthy"
	}

	if h.db != nil {
		probe("database", h.db.PingContext)
	}
	if h.cache != nil {
		probe("cache", h.cache.Ping)
	}
	if h.kafka != nil {
		probe("kafka", h.kafka.Ping)
	}

	status, code := "ready", http.StatusOK
	if !healthy {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, Status{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
