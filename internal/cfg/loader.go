package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// VaultSecretsPath is the path where Vault Agent writes secret files
const VaultSecretsPath = "/vault/secrets"

type Loader struct {
	errs []error
}

func NewLoader() *Loader {
	// Existing env vars always win over file values.
	_ = godotenv.Load()
	loadVaultSecrets(VaultSecretsPath)
	return &Loader{errs: make([]error, 0)}
}

func (l *Loader) HasErrors() bool {
	return len(l.errs) > 0
}

func (l *Loader) Error() error {
	if len(l.errs) > 0 {
		return errors.Join(l.errs...)
	}
	return nil
}

func (l *Loader) fail(format string, args ...any) {
	l.errs = append(l.errs, fmt.Errorf(format, args...))
}

// loadVaultSecrets loads environment variables from Vault Agent output files
func loadVaultSecrets(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".env") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return
	}
	_ = godotenv.Load(files...)
}

func (l *Loader) requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		l.fail("missing env: %s", key)
	}
	return value
}

func (l *Loader) getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (l *Loader) getEnvIntOrDefault(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		l.fail("invalid int for %s: %s", key, value)
		return defaultValue
	}
	return intValue
}

func (l *Loader) getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		l.fail("invalid duration for %s: %s", key, value)
		return defaultValue
	}
	return duration
}

func (l *Loader) getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		l.fail("invalid float for %s: %s", key, value)
		return defaultValue
	}
	return floatValue
}

func (l *Loader) getEnvBoolWithDefault(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		l.fail("invalid bool for %s: %s", key, value)
		return defaultValue
	}
	return boolValue
}

// splitAndTrim splits a comma separated list and drops empty items
func splitAndTrim(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
