package bootstrap

import (
	"fmt"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/internal/vault"
	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
)

// InitGateway builds the OAuth gateway over the built-in provider table.
// publisher may be nil.
func InitGateway(
	config *cfg.OAuthConfig,
	redis cache.Cache,
	credentialVault oauth2.CredentialVault,
	publisher oauth2.EventPublisher,
	log logger.Logger,
) (*oauth2.Gateway, error) {
	registry, err := oauth2.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("provider registry: %w", err)
	}

	var store oauth2.StateStorage
	switch config.StateStore {
	case cfg.StateStoreRedis:
		if redis == nil {
			return nil, fmt.Errorf("redis state store selected but redis is not configured")
		}
		store = oauth2.NewRedisStateStorage(redis)
	default:
		store = oauth2.NewInMemoryStorage()
	}

	credentials := oauth2.CredentialSource(oauth2.NewEnvCredentialSource())
	if config.CredentialsTenant != "" {
		if _, unavailable := credentialVault.(vault.Unavailable); !unavailable {
			credentials = oauth2.NewVaultCredentialSource(credentialVault, config.CredentialsTenant, credentials)
		}
	}

	opts := []oauth2.Option{
		oauth2.WithLogger(log),
		oauth2.WithCredentialSource(credentials),
	}
	if publisher != nil {
		opts = append(opts, oauth2.WithEventPublisher(publisher))
	}

	gw, err := oauth2.NewGateway(oauth2.Config{
		BaseURL:     config.BaseURL,
		StateTTL:    config.StateTimeout,
		HTTPTimeout: config.HTTPTimeout,
	}, registry, store, credentialVault, opts...)
	if err != nil {
		store.Cleanup()
		return nil, err
	}
	return gw, nil
}
