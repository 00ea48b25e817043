package kafka

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// Config holds producer configuration.
type Config struct {
	Brokers  []string
	ClientID string

	// Security - TLS
	TLSEnabled bool
	TLSConfig  *tls.Config

	// Security - SASL
	SASLMechanism string // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	SASLUsername  string
	SASLPassword  string

	// Producer tuning
	RequiredAcks   RequiredAcks  // Default: AllISRAcks
	RecordRetries  int           // Default: 10
	LingerDuration time.Duration // Default: 10ms
	ProduceTimeout time.Duration // Default: 5s
}

// RequiredAcks defines the acknowledgment level for produced messages.
type RequiredAcks int

const (
	// LeaderAck means the producer will wait for the leader to acknowledge.
	LeaderAck RequiredAcks = 1
	// AllISRAcks means the producer will wait for all in-sync replicas to acknowledge.
	AllISRAcks RequiredAcks = -1
)

// DefaultConfig returns a Config with production-ready defaults.
func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers:        brokers,
		ClientID:       "oauth-gateway",
		RequiredAcks:   AllISRAcks,
		RecordRetries:  10,
		LingerDuration: 10 * time.Millisecond,
		ProduceTimeout: 5 * time.Second,
	}
}

// WithTLS enables TLS with the provided configuration.
// If tlsConfig is nil, a default TLS config will be used.
func (c *Config) WithTLS(tlsConfig *tls.Config) *Config {
	c.TLSEnabled = true
	if tlsConfig != nil {
		c.TLSConfig = tlsConfig
	} else {
		c.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return c
}

// WithSASL configures SASL authentication.
func (c *Config) WithSASL(mechanism, username, password string) *Config {
	c.SASLMechanism = mechanism
	c.SASLUsername = username
	c.SASLPassword = password
	return c
}

// Validate ensures the configuration is valid for use.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("kafka: at least one broker is required")
	}

	if c.SASLMechanism != "" {
		if c.SASLUsername == "" || c.SASLPassword == "" {
			return errors.New("kafka: SASL username and password are required when SASL is enabled")
		}
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return errors.New("kafka: unsupported SASL mechanism: " + c.SASLMechanism)
		}
	}

	if c.RecordRetries < 0 {
		return errors.New("kafka: record retries must be non-negative")
	}
	if c.RequiredAcks != LeaderAck && c.RequiredAcks != AllISRAcks {
		return fmt.Errorf("kafka: unsupported required acks %d", c.RequiredAcks)
	}

	return nil
}

// clientOptions translates the config into franz-go options.
func (c *Config) clientOptions() []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.RecordRetries(c.RecordRetries),
	}
	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}
	if c.LingerDuration > 0 {
		opts = append(opts, kgo.ProducerLinger(c.LingerDuration))
	}

	switch c.RequiredAcks {
	case LeaderAck:
		// Idempotent writes require acks=all.
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	default:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}

	if c.TLSEnabled {
		opts = append(opts, kgo.DialTLSConfig(c.TLSConfig))
	}

	switch c.SASLMechanism {
	case "PLAIN":
		opts = append(opts, kgo.SASL(plain.Auth{User: c.SASLUsername, Pass: c.SASLPassword}.AsMechanism()))
	case "SCRAM-SHA-256":
		opts = append(opts, kgo.SASL(scram.Auth{User: c.SASLUsername, Pass: c.SASLPassword}.AsSha256Mechanism()))
	case "SCRAM-SHA-512":
		opts = append(opts, kgo.SASL(scram.Auth{User: c.SASLUsername, Pass: c.SASLPassword}.AsSha512Mechanism()))
	}

	return opts
}
