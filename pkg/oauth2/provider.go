package oauth2

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/Jouiet/VocalIA-sub010/pkg/validator"
)

// TokenEncoding selects how the authorization-code exchange body is sent.
type TokenEncoding int

const (
	TokenEncodingForm TokenEncoding = iota
	TokenEncodingJSON
)

// ProfileStyle selects the profile normalization rules used by login flows.
type ProfileStyle int

const (
	ProfileNone ProfileStyle = iota
	ProfileGoogle
	ProfileGitHub
	ProfileSlackOIDC
)

const shopPlaceholder = "{shop}"

var shopNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,62}$`)

// LoginEndpoints holds identity endpoints that differ from the resource
// (integration) endpoints, e.g. Slack's OpenID Connect URLs.
type LoginEndpoints struct {
	AuthorizeURL string
	TokenURL     string
}

// ProviderConfig describes a single OAuth2/OIDC provider. Values are
// immutable once registered.
type ProviderConfig struct {
	ID          string
	DisplayName string

	AuthorizeURL string
	TokenURL     string
	ProfileURL   string
	EmailsURL    string

	// IntegrationScopes maps a scope key (e.g. "calendar") to the provider
	// scope string it expands to.
	IntegrationScopes map[string]string
	DefaultScopes     []string
	ScopeSeparator    string

	// LoginScopes is sent verbatim on login flows. Empty means the provider
	// does not support login.
	LoginScopes  string
	Login        *LoginEndpoints
	ProfileStyle ProfileStyle

	ClientIDEnv     string
	ClientSecretEnv string
	TokenEncoding   TokenEncoding

	// ShopTemplate marks URLs containing a {shop} placeholder (Shopify).
	ShopTemplate bool

	AuthorizeParams      map[string]string
	LoginAuthorizeParams map[string]string

	// CredentialMapping maps a dotted token-response path to the vault key
	// it is stored under.
	CredentialMapping map[string]string
	// WorkspaceIDPath is the dotted token-response path of a workspace
	// identifier; when present the credentials are also stored under
	// "{provider}_{workspaceID}".
	WorkspaceIDPath string
}

func (p ProviderConfig) SupportsLogin() bool {
	return p.LoginScopes != ""
}

func (p ProviderConfig) SupportsIntegration() bool {
	return len(p.IntegrationScopes) > 0
}

// UsesOIDCLoginEndpoints reports whether login flows use a separate set of
// authorize/token URLs.
func (p ProviderConfig) UsesOIDCLoginEndpoints() bool {
	return p.Login != nil
}

// ScopeNames returns the integration scope keys, sorted.
func (p ProviderConfig) ScopeNames() []string {
	names := make([]string, 0, len(p.IntegrationScopes))
	for name := range p.IntegrationScopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveScopes expands scope keys into provider scope strings. Unknown keys
// pass through unchanged so raw provider scopes can be requested directly.
func (p ProviderConfig) ResolveScopes(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if scope, ok := p.IntegrationScopes[key]; ok {
			out = append(out, scope)
			continue
		}
		out = append(out, key)
	}
	return out
}

func (p ProviderConfig) separator() string {
	if p.ScopeSeparator == "" {
		return " "
	}
	return p.ScopeSeparator
}

func (p ProviderConfig) authorizeEndpoint(login bool, shop string) (string, error) {
	if login && p.Login != nil {
		return p.expand(p.Login.AuthorizeURL, shop)
	}
	return p.expand(p.AuthorizeURL, shop)
}

func (p ProviderConfig) tokenEndpoint(login bool, shop string) (string, error) {
	if login && p.Login != nil {
		return p.expand(p.Login.TokenURL, shop)
	}
	return p.expand(p.TokenURL, shop)
}

func (p ProviderConfig) expand(raw, shop string) (string, error) {
	if !p.ShopTemplate {
		return raw, nil
	}
	name, err := normalizeShop(shop)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(raw, shopPlaceholder, name), nil
}

// normalizeShop accepts "store" or "store.myshopify.com".
func normalizeShop(shop string) (string, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(shop)), ".myshopify.com")
	if !shopNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: invalid or missing shop %q", ErrInvalidRequest, shop)
	}
	return name, nil
}

// Validate checks that the descriptor is internally consistent.
func (p ProviderConfig) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("provider %q: "+format, append([]any{p.ID}, args...)...))
	}

	if err := validator.ValidateIdentifier(p.ID); err != nil {
		fail("id: %w", err)
	}
	if p.DisplayName == "" {
		fail("display name is required")
	}
	if p.ClientIDEnv == "" || p.ClientSecretEnv == "" {
		fail("client id and secret env var names are required")
	}
	if sep := p.separator(); sep != " " && sep != "," {
		fail("unsupported scope separator %q", sep)
	}
	if !p.SupportsLogin() && !p.SupportsIntegration() {
		fail("supports neither login nor integration")
	}

	checkURL := func(field, raw string) {
		if p.ShopTemplate {
			if !strings.Contains(raw, shopPlaceholder) {
				fail("%s must contain %s", field, shopPlaceholder)
			}
			raw = strings.ReplaceAll(raw, shopPlaceholder, "shop")
		}
		if !isAbsoluteURL(raw) {
			fail("%s %q is not an absolute URL", field, raw)
		}
	}

	checkURL("authorize url", p.AuthorizeURL)
	checkURL("token url", p.TokenURL)
	if p.Login != nil {
		checkURL("login authorize url", p.Login.AuthorizeURL)
		checkURL("login token url", p.Login.TokenURL)
	}

	if p.SupportsLogin() {
		if p.ProfileStyle == ProfileNone {
			fail("login requires a profile style")
		}
		if !isAbsoluteURL(p.ProfileURL) {
			fail("login requires an absolute profile url")
		}
		if p.ProfileStyle == ProfileGitHub && !isAbsoluteURL(p.EmailsURL) {
			fail("github profile style requires an emails url")
		}
	}

	return errors.Join(errs...)
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
