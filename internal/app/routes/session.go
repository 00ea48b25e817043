package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/Jouiet/VocalIA-sub010/internal/service/session"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/gin-gonic/gin"
)

// SessionReader resolves and ends the sessions minted by login callbacks.
type SessionReader interface {
	CookieName() string
	ExpiredCookie() *oauth2.SessionCookie
	CurrentProfile(ctx context.Context, sessionID string) (*oauth2.LoginProfile, error)
	EndSession(ctx context.Context, sessionID string) error
}

// SetupSession mounts GET and DELETE /oauth/session.
func SetupSession(r gin.IRouter, sessions SessionReader, log logger.Logger) {
	g := r.Group("/oauth/session")
	g.GET("", currentSession(sessions, log))
	g.DELETE("", endSession(sessions, log))
}

func currentSession(sessions SessionReader, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessions.CookieName())
		if err != nil || id == "" {
			notSignedIn(c)
			return
		}

		profile, err := sessions.CurrentProfile(c.Request.Context(), id)
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			notSignedIn(c)
			return
		}
		if err != nil {
			log.Error(c.Request.Context(), "failed to read session", logger.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func endSession(sessions SessionReader, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(sessions.CookieName()); err == nil && id != "" {
			if err := sessions.EndSession(c.Request.Context(), id); err != nil {
				log.Error(c.Request.Context(), "failed to end session", logger.Err(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal error"})
				return
			}
		}

		expired := sessions.ExpiredCookie()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(expired.Name, "", expired.MaxAge, "/", "", expired.Secure, true)
		c.Status(http.StatusNoContent)
	}
}

func notSignedIn(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "no_session", "message": "not signed in"})
}
