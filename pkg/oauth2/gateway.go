package oauth2

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	EventIntegrationConnected = "oauth.integration.connected"
	EventLoginSucceeded       = "oauth.login.succeeded"
)

// Config holds gateway settings.
type Config struct {
	// BaseURL is the externally reachable origin used to build redirect URIs.
	BaseURL     string
	StateTTL    time.Duration
	HTTPTimeout time.Duration
}

// ExchangeResult is returned by a successful integration exchange.
type ExchangeResult struct {
	Success      bool     `json:"success"`
	TenantID     string   `json:"tenantId"`
	Provider     string   `json:"provider"`
	Scopes       []string `json:"scopes"`
	WorkspaceKey string   `json:"workspaceKey,omitempty"`
}

// Event is a notification emitted after a completed flow. It never carries
// tokens.
type Event struct {
	Type       string            `json:"type"`
	TenantID   string            `json:"tenantId,omitempty"`
	Provider   string            `json:"provider"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// ProviderInfo is the public description of a provider.
type ProviderInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SupportsLogin bool     `json:"supportsLogin"`
	Scopes        []string `json:"scopes"`
}

// ProviderStatus reports whether a provider's client credentials resolve.
type ProviderStatus struct {
	ID         string `json:"id"`
	Configured bool   `json:"configured"`
	Error      string `json:"error,omitempty"`
}

type options struct {
	publisher     EventPublisher
	log           logger.Logger
	client        *http.Client
	credentials   CredentialSource
	meterProvider metric.MeterProvider
}

type Option func(*options)

func WithEventPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHTTPClient replaces the instrumented default client used for provider
// calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithCredentialSource replaces environment-based client credential lookup.
func WithCredentialSource(s CredentialSource) Option {
	return func(o *options) { o.credentials = s }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Gateway runs integration and login authorization-code flows.
type Gateway struct {
	registry    *Registry
	states      *StateManager
	credentials CredentialSource
	persistence *CredentialPersistence
	upstream    *upstream
	publisher   EventPublisher
	log         logger.Logger
	metrics     *gatewayMetrics
	baseURL     string
}

func NewGateway(cfg Config, registry *Registry, store StateStorage, vault CredentialVault, opts ...Option) (*Gateway, error) {
	if registry == nil {
		return nil, errors.New("oauth2: registry is required")
	}
	if store == nil {
		return nil, errors.New("oauth2: state storage is required")
	}
	if vault == nil {
		return nil, errors.New("oauth2: credential vault is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if !isAbsoluteURL(baseURL) {
		return nil, fmt.Errorf("oauth2: base url %q is not absolute", cfg.BaseURL)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	if o.client == nil {
		o.client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if o.credentials == nil {
		o.credentials = NewEnvCredentialSource()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}

	m, err := newGatewayMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("oauth2: metrics: %w", err)
	}

	return &Gateway{
		registry:    registry,
		states:      NewStateManager(store, cfg.StateTTL),
		credentials: o.credentials,
		persistence: NewCredentialPersistence(vault),
		upstream:    newUpstream(o.client, cfg.HTTPTimeout),
		publisher:   o.publisher,
		log:         o.log,
		metrics:     m,
		baseURL:     baseURL,
	}, nil
}

// Close stops the state store's background work.
func (g *Gateway) Close() {
	g.states.Close()
}

func (g *Gateway) Providers() []ProviderInfo {
	list := g.registry.List()
	out := make([]ProviderInfo, 0, len(list))
	for _, p := range list {
		out = append(out, ProviderInfo{
			ID:            p.ID,
			Name:          p.DisplayName,
			SupportsLogin: p.SupportsLogin(),
			Scopes:        p.ScopeNames(),
		})
	}
	return out
}

// Status resolves client credentials for every provider without contacting
// the providers.
func (g *Gateway) Status(ctx context.Context) []ProviderStatus {
	list := g.registry.List()
	out := make([]ProviderStatus, 0, len(list))
	for _, p := range list {
		st := ProviderStatus{ID: p.ID, Configured: true}
		if _, err := g.credentials.Lookup(ctx, p); err != nil {
			st.Configured = false
			st.Error = err.Error()
		}
		out = append(out, st)
	}
	return out
}

func (g *Gateway) CallbackURL(providerID string) string {
	return g.baseURL + "/oauth/callback/" + providerID
}

func (g *Gateway) LoginCallbackURL(providerID string) string {
	return g.baseURL + "/oauth/login/callback/" + providerID
}

// AuthURL issues an integration state for tenantID and returns the provider
// authorize URL. Empty scopes select the provider defaults. shop is only
// used by providers with templated URLs.
func (g *Gateway) AuthURL(ctx context.Context, providerID, tenantID string, scopes []string, shop string) (string, error) {
	p, err := g.registry.Get(providerID)
	if err != nil {
		return "", err
	}
	if !p.SupportsIntegration() {
		return "", fmt.Errorf("%w: %s has no integration scopes", ErrInvalidRequest, p.ID)
	}
	if tenantID == "" {
		return "", fmt.Errorf("%w: tenantId is required", ErrInvalidRequest)
	}
	if len(scopes) == 0 {
		scopes = p.DefaultScopes
	}

	creds, err := g.credentials.Lookup(ctx, p)
	if err != nil {
		return "", err
	}
	if _, err := p.authorizeEndpoint(false, shop); err != nil {
		return "", err
	}

	state, err := g.states.GenerateState(ctx, tenantID, p.ID, scopes, PurposeIntegration, WithShop(shop))
	if err != nil {
		return "", err
	}
	g.metrics.recordState(ctx, p.ID, PurposeIntegration)

	return BuildAuthorizeURL(p, AuthorizeRequest{
		ClientID:    creds.ClientID,
		State:       state,
		Scopes:      scopes,
		RedirectURI: g.CallbackURL(p.ID),
		Shop:        shop,
	})
}

// LoginAuthURL issues a login state and returns the provider's identity
// authorize URL.
func (g *Gateway) LoginAuthURL(ctx context.Context, providerID string) (string, error) {
	p, err := g.registry.Get(providerID)
	if err != nil {
		return "", err
	}
	if !p.SupportsLogin() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLoginProvider, p.ID)
	}

	creds, err := g.credentials.Lookup(ctx, p)
	if err != nil {
		return "", err
	}

	state, err := g.states.GenerateLoginState(ctx, p.ID, strings.Fields(p.LoginScopes))
	if err != nil {
		return "", err
	}
	g.metrics.recordState(ctx, p.ID, PurposeLogin)

	return BuildAuthorizeURL(p, AuthorizeRequest{
		ClientID:    creds.ClientID,
		State:       state,
		RedirectURI: g.LoginCallbackURL(p.ID),
		Login:       true,
	})
}

// ExchangeCode completes an integration flow: consumes the state, trades
// code for tokens and stores them for the state's tenant.
func (g *Gateway) ExchangeCode(ctx context.Context, providerID, code, stateToken string) (result *ExchangeResult, err error) {
	start := time.Now()
	label := unknownProviderLabel
	defer func() { g.metrics.recordExchange(ctx, label, PurposeIntegration, start, err) }()

	p, err := g.registry.Get(providerID)
	if err != nil {
		return nil, err
	}
	label = p.ID

	state, err := g.states.VerifyState(ctx, stateToken)
	if err != nil {
		g.log.Warn(ctx, "oauth state rejected", logger.Field{Key: "provider", Value: p.ID}, logger.Err(err))
		return nil, ErrInvalidState
	}
	if reason := mismatch(state, p.ID, PurposeIntegration); reason != "" {
		g.log.Warn(ctx, "oauth state rejected",
			logger.Field{Key: "provider", Value: p.ID},
			logger.Field{Key: "reason", Value: reason})
		return nil, ErrInvalidState
	}

	creds, err := g.credentials.Lookup(ctx, p)
	if err != nil {
		return nil, err
	}
	endpoint, err := p.tokenEndpoint(false, state.Shop)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrTokenExchangeFailed)
	}

	tokens, err := g.upstream.exchangeCode(ctx, tokenRequest{
		Endpoint:    endpoint,
		Encoding:    p.TokenEncoding,
		Code:        code,
		RedirectURI: g.CallbackURL(p.ID),
		Credentials: creds,
	})
	if err != nil {
		g.log.Error(ctx, "oauth token exchange failed", logger.Field{Key: "provider", Value: p.ID}, logger.Err(err))
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, ErrNoAccessToken)
	}

	workspaceKey, err := g.persistence.SaveTokens(ctx, state.TenantID, p, tokens)
	if err != nil {
		g.log.Error(ctx, "failed to persist oauth credentials",
			logger.Field{Key: "provider", Value: p.ID},
			logger.Field{Key: "tenant_id", Value: state.TenantID},
			logger.Err(err))
		return nil, err
	}
	if workspaceKey != "" {
		g.metrics.recordWorkspaceSave(ctx, p.ID)
	}

	g.log.Info(ctx, "oauth integration connected",
		logger.Field{Key: "provider", Value: p.ID},
		logger.Field{Key: "tenant_id", Value: state.TenantID})

	attrs := map[string]string{"scopes": strings.Join(state.Scopes, ",")}
	if workspaceKey != "" {
		attrs["workspace_key"] = workspaceKey
	}
	g.publish(ctx, Event{
		Type:       EventIntegrationConnected,
		TenantID:   state.TenantID,
		Provider:   p.ID,
		OccurredAt: time.Now().UTC(),
		Attributes: attrs,
	})

	return &ExchangeResult{
		Success:      true,
		TenantID:     state.TenantID,
		Provider:     p.ID,
		Scopes:       state.Scopes,
		WorkspaceKey: workspaceKey,
	}, nil
}

// ExchangeLoginCode completes a login flow and returns the normalized
// profile. Login tokens are not persisted.
func (g *Gateway) ExchangeLoginCode(ctx context.Context, providerID, code, stateToken string) (profile *LoginProfile, err error) {
	start := time.Now()
	label := unknownProviderLabel
	defer func() { g.metrics.recordExchange(ctx, label, PurposeLogin, start, err) }()

	p, err := g.registry.Get(providerID)
	if err != nil {
		return nil, err
	}
	label = p.ID
	if !p.SupportsLogin() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLoginProvider, p.ID)
	}

	state, err := g.states.VerifyState(ctx, stateToken)
	if err != nil {
		g.log.Warn(ctx, "oauth login state rejected", logger.Field{Key: "provider", Value: p.ID}, logger.Err(err))
		return nil, ErrInvalidLoginState
	}
	if reason := mismatch(state, p.ID, PurposeLogin); reason != "" {
		g.log.Warn(ctx, "oauth login state rejected",
			logger.Field{Key: "provider", Value: p.ID},
			logger.Field{Key: "reason", Value: reason})
		return nil, ErrInvalidLoginState
	}

	creds, err := g.credentials.Lookup(ctx, p)
	if err != nil {
		return nil, err
	}
	endpoint, err := p.tokenEndpoint(true, "")
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrTokenExchangeFailed)
	}

	tokens, err := g.upstream.exchangeCode(ctx, tokenRequest{
		Endpoint:    endpoint,
		Encoding:    p.TokenEncoding,
		Code:        code,
		RedirectURI: g.LoginCallbackURL(p.ID),
		Credentials: creds,
	})
	if err != nil {
		g.log.Error(ctx, "oauth login token exchange failed", logger.Field{Key: "provider", Value: p.ID}, logger.Err(err))
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	profile, err = g.upstream.fetchProfile(ctx, p, tokens.AccessToken)
	if err != nil {
		g.log.Error(ctx, "oauth login profile failed", logger.Field{Key: "provider", Value: p.ID}, logger.Err(err))
		return nil, err
	}

	g.log.Info(ctx, "oauth login succeeded",
		logger.Field{Key: "provider", Value: p.ID},
		logger.Field{Key: "provider_id", Value: profile.ProviderID})

	g.publish(ctx, Event{
		Type:       EventLoginSucceeded,
		Provider:   p.ID,
		OccurredAt: time.Now().UTC(),
		Attributes: map[string]string{"provider_id": profile.ProviderID},
	})
	return profile, nil
}

func (g *Gateway) publish(ctx context.Context, event Event) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, event); err != nil {
		g.log.Warn(ctx, "failed to publish oauth event",
			logger.Field{Key: "type", Value: event.Type},
			logger.Err(err))
	}
}

// mismatch returns why state cannot complete a flow for provider, or "".
func mismatch(state *AuthorizationState, provider string, purpose Purpose) string {
	switch {
	case state.Provider != provider:
		return "provider mismatch"
	case state.Purpose != purpose:
		return "wrong purpose"
	case purpose == PurposeLogin && state.TenantID != LoginTenant:
		return "login state without login tenant"
	case purpose == PurposeIntegration && state.TenantID == LoginTenant:
		return "integration state with login tenant"
	default:
		return ""
	}
}
