package routes

import (
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/gin-gonic/gin"
)

// SetupOAuth mounts the /oauth endpoints. sessions may be nil.
func SetupOAuth(r gin.IRouter, flows oauth2.Flows, sessions oauth2.LoginSessionIssuer, log logger.Logger) {
	oauth2.RegisterRoutes(r, flows, oauth2.HandlerConfig{
		Sessions: sessions,
		Logger:   log,
	})
}
