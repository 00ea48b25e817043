package cfg

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Pool settings live in a YAML file; the password always comes from env.
const defaultPostgresYAMLPath = "internal/cfg/postgres.yaml"

// PostgresConfig holds database configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	QueryTimeout time.Duration
}

// PostgresYAMLConfig represents the YAML configuration structure
type PostgresYAMLConfig struct {
	Host                   string `yaml:"host"`
	Port                   string `yaml:"port"`
	User                   string `yaml:"user"`
	Database               string `yaml:"database"`
	SSLMode                string `yaml:"ssl_mode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int    `yaml:"conn_max_idle_time_seconds"`
	QueryTimeoutSeconds    int    `yaml:"query_timeout_seconds"`
}

// DSN returns a lib/pq connection url.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (l *Loader) loadPostgres() *PostgresConfig {
	path := l.getEnvWithDefault("POSTGRES_CONFIG_FILE", defaultPostgresYAMLPath)
	yamlCfg, err := loadPostgresYAML(path)
	if err != nil {
		l.fail("failed to load postgres yaml config: %w", err)
		return nil
	}

	c := &PostgresConfig{
		Host:            l.getEnvWithDefault("POSTGRES_HOST", yamlCfg.Host),
		Port:            l.getEnvWithDefault("POSTGRES_PORT", yamlCfg.Port),
		User:            l.getEnvWithDefault("POSTGRES_USER", yamlCfg.User),
		Password:        l.requireEnv("POSTGRES_PASSWORD"),
		DBName:          l.getEnvWithDefault("POSTGRES_DB", yamlCfg.Database),
		SSLMode:         yamlCfg.SSLMode,
		MaxOpenConns:    yamlCfg.MaxOpenConns,
		MaxIdleConns:    yamlCfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(yamlCfg.ConnMaxLifetimeSeconds) * time.Second,
		ConnMaxIdleTime: time.Duration(yamlCfg.ConnMaxIdleTimeSeconds) * time.Second,
		QueryTimeout:    time.Duration(yamlCfg.QueryTimeoutSeconds) * time.Second,
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 5 * time.Second
	}
	if c.Host == "" || c.Port == "" || c.DBName == "" {
		l.fail("postgres host, port and database are required")
	}
	return c
}

func loadPostgresYAML(path string) (*PostgresYAMLConfig, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg PostgresYAMLConfig
	if err := yaml.Unmarshal(yamlData, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}
