package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFlows struct {
	mock.Mock
}

func (m *mockFlows) Providers() []ProviderInfo {
	args := m.Called()
	return args.Get(0).([]ProviderInfo)
}

func (m *mockFlows) AuthURL(ctx context.Context, providerID, tenantID string, scopes []string, shop string) (string, error) {
	args := m.Called(ctx, providerID, tenantID, scopes, shop)
	return args.String(0), args.Error(1)
}

func (m *mockFlows) LoginAuthURL(ctx context.Context, providerID string) (string, error) {
	args := m.Called(ctx, providerID)
	return args.String(0), args.Error(1)
}

func (m *mockFlows) ExchangeCode(ctx context.Context, providerID, code, state string) (*ExchangeResult, error) {
	args := m.Called(ctx, providerID, code, state)
	res, _ := args.Get(0).(*ExchangeResult)
	return res, args.Error(1)
}

func (m *mockFlows) ExchangeLoginCode(ctx context.Context, providerID, code, state string) (*LoginProfile, error) {
	args := m.Called(ctx, providerID, code, state)
	p, _ := args.Get(0).(*LoginProfile)
	return p, args.Error(1)
}

type stubSessions struct {
	cookie *SessionCookie
	err    error
	got    *LoginProfile
}

func (s *stubSessions) IssueLoginSession(_ context.Context, p *LoginProfile) (*SessionCookie, error) {
	s.got = p
	return s.cookie, s.err
}

func setupRouter(flows Flows, cfg HandlerConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, flows, cfg)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProvidersHandler(t *testing.T) {
	flows := &mockFlows{}
	flows.On("Providers").Return([]ProviderInfo{{ID: "google", Name: "Google", SupportsLogin: true, Scopes: []string{"calendar"}}})

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/providers")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"providers":[{"id":"google","name":"Google","supportsLogin":true,"scopes":["calendar"]}]}`, w.Body.String())
}

func TestAuthorizeHandler(t *testing.T) {
	flows := &mockFlows{}
	flows.On("AuthURL", mock.Anything, "google", "t1", []string{"calendar", "sheets"}, "").
		Return("https://accounts.example/auth?state=x", nil)
	r := setupRouter(flows, HandlerConfig{})

	for _, path := range []string{"/oauth/authorize/google", "/oauth/start/google"} {
		w := serve(r, path+"?tenantId=t1&scopes=calendar,%20sheets")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://accounts.example/auth?state=x", w.Header().Get("Location"))
	}
}

func TestAuthorizeHandler_RequiresTenant(t *testing.T) {
	flows := &mockFlows{}
	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/authorize/google")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tenantId is required", decodeBody(t, w)["message"])
	flows.AssertNotCalled(t, "AuthURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorizeHandler_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: myspace", ErrProviderNotFound), http.StatusBadRequest, "unknown_provider"},
		{fmt.Errorf("%w for google: missing GOOGLE_CLIENT_ID", ErrMissingCredentials), http.StatusServiceUnavailable, "missing_oauth_credentials"},
		{errors.New("redis down"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			flows := &mockFlows{}
			flows.On("AuthURL", mock.Anything, "google", "t1", []string(nil), "").Return("", tt.err)

			w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/authorize/google?tenantId=t1")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeBody(t, w)["error"])
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	flows := &mockFlows{}
	flows.On("AuthURL", mock.Anything, "google", "t1", []string(nil), "").Return("", errors.New("dial tcp 10.0.0.3:6379"))

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/authorize/google?tenantId=t1")
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestLoginHandler(t *testing.T) {
	flows := &mockFlows{}
	flows.On("LoginAuthURL", mock.Anything, "slack").Return("https://slack.example/openid?state=y", nil)
	flows.On("LoginAuthURL", mock.Anything, "hubspot").Return("", fmt.Errorf("%w: hubspot", ErrUnsupportedLoginProvider))
	r := setupRouter(flows, HandlerConfig{})

	w := serve(r, "/oauth/login/slack")
	assert.Equal(t, http.StatusFound, w.Code)

	w = serve(r, "/oauth/login/hubspot")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported_login_provider", decodeBody(t, w)["error"])
}

func TestCallbackHandler(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeCode", mock.Anything, "google", "c1", "s1").
		Return(&ExchangeResult{Success: true, TenantID: "t1", Provider: "google", Scopes: []string{"calendar"}}, nil)

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/callback/google?code=c1&state=s1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"tenantId":"t1","provider":"google","scopes":["calendar"]}`, w.Body.String())
}

func TestCallbackHandler_InvalidStateHidesReason(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeCode", mock.Anything, "google", "c1", "bad").
		Return(nil, fmt.Errorf("%w: %v", ErrInvalidState, ErrStateExpired))

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/callback/google?code=c1&state=bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_or_expired_state", body["error"])
	assert.Equal(t, "invalid or expired state", body["message"])
	assert.NotContains(t, w.Body.String(), ErrStateExpired.Error())
}

func TestCallbackHandler_ProviderError(t *testing.T) {
	flows := &mockFlows{}

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/callback/google?error=access_denied&state=s1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "access_denied", decodeBody(t, w)["message"])
	flows.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackHandler_UpstreamFailure(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeCode", mock.Anything, "github", "c1", "s1").
		Return(nil, fmt.Errorf("%w: status 502", ErrTokenExchangeFailed))

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/callback/github?code=c1&state=s1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "token_exchange_failed", decodeBody(t, w)["error"])
}

func TestLoginCallbackHandler(t *testing.T) {
	profile := &LoginProfile{Provider: "github", ProviderID: "42", Email: "octo@example.com", Name: "octo"}
	flows := &mockFlows{}
	flows.On("ExchangeLoginCode", mock.Anything, "github", "c1", "s1").Return(profile, nil)
	sessions := &stubSessions{cookie: &SessionCookie{Name: "session_id", Value: "sid", MaxAge: 3600}}

	w := serve(setupRouter(flows, HandlerConfig{Sessions: sessions}), "/oauth/login/callback/github?code=c1&state=s1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "octo@example.com", decodeBody(t, w)["email"])
	assert.Same(t, profile, sessions.got)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, "sid", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginCallbackHandler_NoSessionStore(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeLoginCode", mock.Anything, "google", "c1", "s1").
		Return(&LoginProfile{Provider: "google", ProviderID: "1", Email: "a@example.com"}, nil)

	w := serve(setupRouter(flows, HandlerConfig{}), "/oauth/login/callback/google?code=c1&state=s1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginCallbackHandler_Errors(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeLoginCode", mock.Anything, "google", "c1", "s1").Return(nil, ErrInvalidLoginState)
	flows.On("ExchangeLoginCode", mock.Anything, "slack", "c1", "s1").
		Return(nil, ErrSlackEmailUnavailable)
	r := setupRouter(flows, HandlerConfig{})

	w := serve(r, "/oauth/login/callback/google?code=c1&state=s1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_login_state", decodeBody(t, w)["error"])

	w = serve(r, "/oauth/login/callback/slack?code=c1&state=s1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "unable_to_retrieve_email_from_slack", decodeBody(t, w)["error"])
}

func TestLoginCallbackHandler_SessionFailure(t *testing.T) {
	flows := &mockFlows{}
	flows.On("ExchangeLoginCode", mock.Anything, "google", "c1", "s1").
		Return(&LoginProfile{Provider: "google", ProviderID: "1", Email: "a@example.com"}, nil)
	sessions := &stubSessions{err: errors.New("redis down")}

	w := serve(setupRouter(flows, HandlerConfig{Sessions: sessions}), "/oauth/login/callback/google?code=c1&state=s1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSplitScopes(t *testing.T) {
	assert.Nil(t, splitScopes(""))
	assert.Equal(t, []string{"a", "b"}, splitScopes("a, ,b,"))
}
