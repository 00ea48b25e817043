package oauth2

import (
	"fmt"
	"net/url"
	"strings"
)

// AuthorizeRequest carries the per-request inputs of an authorize URL.
type AuthorizeRequest struct {
	ClientID    string
	State       string
	Scopes      []string
	RedirectURI string
	Login       bool
	Shop        string
}

// BuildAuthorizeURL composes the provider redirect URL. For login requests
// Scopes is ignored and the provider's login scopes are used.
func BuildAuthorizeURL(p ProviderConfig, req AuthorizeRequest) (string, error) {
	if req.Login && !p.SupportsLogin() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLoginProvider, p.ID)
	}
	if req.ClientID == "" || req.State == "" || req.RedirectURI == "" {
		return "", fmt.Errorf("%w: client id, state and redirect uri are required", ErrInvalidRequest)
	}

	endpoint, err := p.authorizeEndpoint(req.Login, req.Shop)
	if err != nil {
		return "", err
	}

	scope := p.LoginScopes
	extra := p.LoginAuthorizeParams
	if !req.Login {
		scope = strings.Join(p.ResolveScopes(req.Scopes), p.separator())
		extra = p.AuthorizeParams
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", req.ClientID)
	params.Set("redirect_uri", req.RedirectURI)
	params.Set("scope", scope)
	params.Set("state", req.State)
	for k, v := range extra {
		params.Set(k, v)
	}

	return endpoint + "?" + params.Encode(), nil
}
