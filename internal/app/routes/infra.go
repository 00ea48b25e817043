package routes

import (
	"net/http"

	"github.com/Jouiet/VocalIA-sub010/internal/app/health"
	"github.com/gin-gonic/gin"
)

func SetupInfra(r gin.IRouter, hc *health.Checker, metrics http.Handler) {
	r.GET("/health", hc.Health)
	r.GET("/healthz", hc.Liveness)
	r.GET("/readyz", hc.Readiness)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
}
