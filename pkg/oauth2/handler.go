package oauth2

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Flows is the gateway surface the HTTP handlers drive.
type Flows interface {
	Providers() []ProviderInfo
	AuthURL(ctx context.Context, providerID, tenantID string, scopes []string, shop string) (string, error)
	LoginAuthURL(ctx context.Context, providerID string) (string, error)
	ExchangeCode(ctx context.Context, providerID, code, state string) (*ExchangeResult, error)
	ExchangeLoginCode(ctx context.Context, providerID, code, state string) (*LoginProfile, error)
}

// SessionCookie describes the cookie set after a successful login.
type SessionCookie struct {
	Name   string
	Value  string
	MaxAge int
	Secure bool
}

// LoginSessionIssuer mints a session for a verified login profile.
type LoginSessionIssuer interface {
	IssueLoginSession(ctx context.Context, profile *LoginProfile) (*SessionCookie, error)
}

type HandlerConfig struct {
	// Sessions is optional; without it login callbacks only return the profile.
	Sessions LoginSessionIssuer
	Logger   logger.Logger
}

// RegisterRoutes mounts the OAuth endpoints on r.
func RegisterRoutes(r gin.IRouter, flows Flows, cfg HandlerConfig) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	g := r.Group("/oauth")
	g.GET("/providers", ProvidersHandler(flows))
	g.GET("/authorize/:provider", AuthorizeHandler(flows, cfg.Logger))
	g.GET("/start/:provider", AuthorizeHandler(flows, cfg.Logger))
	g.GET("/login/:provider", LoginHandler(flows, cfg.Logger))
	g.GET("/callback/:provider", CallbackHandler(flows, cfg.Logger))
	g.GET("/login/callback/:provider", LoginCallbackHandler(flows, cfg))
}

// ProvidersHandler lists the registered providers
// @Summary List OAuth providers
// @Tags oauth
// @Produce json
// @Router /oauth/providers [get]
func ProvidersHandler(flows Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"providers": flows.Providers()})
	}
}

// AuthorizeHandler starts an integration flow for a tenant
// @Summary Start OAuth integration
// @Tags oauth
// @Param provider path string true "Provider id"
// @Param tenantId query string true "Tenant id"
// @Param scopes query string false "Comma separated scope keys"
// @Param shop query string false "Shopify shop"
// @Success 302 {string} string "Redirect"
// @Router /oauth/authorize/{provider} [get]
func AuthorizeHandler(flows Flows, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Query("tenantId")
		if tenantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": Code(ErrInvalidRequest), "message": "tenantId is required"})
			return
		}

		authURL, err := flows.AuthURL(c.Request.Context(), c.Param("provider"), tenantID, splitScopes(c.Query("scopes")), c.Query("shop"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.Redirect(http.StatusFound, authURL)
	}
}

// LoginHandler starts a login flow
// @Summary Start OAuth login
// @Tags oauth
// @Param provider path string true "Provider id"
// @Success 302 {string} string "Redirect"
// @Router /oauth/login/{provider} [get]
func LoginHandler(flows Flows, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authURL, err := flows.LoginAuthURL(c.Request.Context(), c.Param("provider"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.Redirect(http.StatusFound, authURL)
	}
}

// CallbackHandler completes an integration flow
// @Summary OAuth integration callback
// @Tags oauth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Failure 401 {object} map[string]string "Invalid state"
// @Router /oauth/callback/{provider} [get]
func CallbackHandler(flows Flows, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if providerDenied(c) {
			return
		}

		result, err := flows.ExchangeCode(c.Request.Context(), c.Param("provider"), c.Query("code"), c.Query("state"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// LoginCallbackHandler completes a login flow and returns the profile
// @Summary OAuth login callback
// @Tags oauth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Failure 401 {object} map[string]string "Invalid state"
// @Router /oauth/login/callback/{provider} [get]
func LoginCallbackHandler(flows Flows, cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if providerDenied(c) {
			return
		}

		ctx := c.Request.Context()
		profile, err := flows.ExchangeLoginCode(ctx, c.Param("provider"), c.Query("code"), c.Query("state"))
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}

		if cfg.Sessions != nil {
			cookie, err := cfg.Sessions.IssueLoginSession(ctx, profile)
			if err != nil {
				cfg.Logger.Error(ctx, "failed to create login session", logger.Err(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session_error", "message": "failed to create session"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, cookie.Value, cookie.MaxAge, "/", "", cookie.Secure, true)
		}

		c.JSON(http.StatusOK, profile)
	}
}

// providerDenied answers callbacks carrying a provider error parameter.
func providerDenied(c *gin.Context) bool {
	e := c.Query("error")
	if e == "" {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "provider_error",
		"message": e,
		"detail":  c.Query("error_description"),
	})
	return true
}

func writeError(c *gin.Context, log logger.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()

	switch {
	case errors.Is(err, ErrInvalidLoginState):
		msg = ErrInvalidLoginState.Error()
	case errors.Is(err, ErrInvalidState):
		msg = ErrInvalidState.Error()
	case status == http.StatusInternalServerError:
		log.Error(c.Request.Context(), "oauth request failed", logger.Err(err))
		msg = "internal error"
	}

	c.JSON(status, gin.H{"error": Code(err), "message": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrInvalidLoginState):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrUnsupportedLoginProvider),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTokenExchangeFailed),
		errors.Is(err, ErrNoAccessToken),
		errors.Is(err, ErrProfileFetchFailed),
		errors.Is(err, ErrEmailUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func splitScopes(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
