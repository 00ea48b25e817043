package oauth2

import (
	"errors"
	"fmt"
)

var (
	ErrProviderNotFound         = errors.New("unknown oauth provider")
	ErrInvalidState             = errors.New("invalid or expired state")
	ErrInvalidLoginState        = errors.New("invalid or expired login state")
	ErrMissingCredentials       = errors.New("missing oauth credentials")
	ErrTokenExchangeFailed      = errors.New("token exchange failed")
	ErrNoAccessToken            = errors.New("no access token in token response")
	ErrProfileFetchFailed       = errors.New("failed to fetch user profile")
	ErrEmailUnavailable         = errors.New("unable to retrieve email")
	ErrUnsupportedLoginProvider = errors.New("provider does not support login")
	ErrInvalidRequest           = errors.New("invalid authorization request")
	ErrCredentialStore          = errors.New("credential vault failure")

	ErrSlackEmailUnavailable = fmt.Errorf("%w from slack", ErrEmailUnavailable)
)

// Code returns the stable machine-readable code for err, or "internal_error".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidLoginState):
		return "invalid_login_state"
	case errors.Is(err, ErrInvalidState):
		return "invalid_or_expired_state"
	case errors.Is(err, ErrMissingCredentials):
		return "missing_oauth_credentials"
	case errors.Is(err, ErrNoAccessToken):
		return "no_access_token"
	case errors.Is(err, ErrTokenExchangeFailed):
		return "token_exchange_failed"
	case errors.Is(err, ErrSlackEmailUnavailable):
		return "unable_to_retrieve_email_from_slack"
	case errors.Is(err, ErrEmailUnavailable):
		return "unable_to_retrieve_email"
	case errors.Is(err, ErrProfileFetchFailed):
		return "failed_to_fetch_user_profile"
	case errors.Is(err, ErrUnsupportedLoginProvider):
		return "unsupported_login_provider"
	case errors.Is(err, ErrProviderNotFound):
		return "unknown_provider"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrCredentialStore):
		return "credential_store_error"
	default:
		return "internal_error"
	}
}
