package cfg

const (
	VaultBackendMemory   = "memory"
	VaultBackendPostgres = "postgres"
)

const minVaultKeyLength = 16

type VaultConfig struct {
	Backend string
	Key     string
}

func (l *Loader) loadVault() VaultConfig {
	c := VaultConfig{
		Backend: l.getEnvWithDefault("VAULT_BACKEND", VaultBackendMemory),
	}

	switch c.Backend {
	case VaultBackendMemory:
	case VaultBackendPostgres:
		c.Key = l.requireEnv("VOCALIA_VAULT_KEY")
		if c.Key != "" && len(c.Key) < minVaultKeyLength {
			l.fail("VOCALIA_VAULT_KEY must be at least %d characters", minVaultKeyLength)
		}
	default:
		l.fail("VAULT_BACKEND must be memory or postgres: %q", c.Backend)
	}
	return c
}
