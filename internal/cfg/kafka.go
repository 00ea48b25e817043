package cfg

import (
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/validator"
)

const defaultEventTopic = "vocalia.oauth.events"

// KafkaConfig is nil when KAFKA_BROKERS is unset; events are then only logged.
type KafkaConfig struct {
	Brokers        []string
	ClientID       string
	Topic          string
	ProduceTimeout time.Duration

	TLSEnabled    bool
	SASLUser      string
	SASLPassword  string
	SASLMechanism string
}

func (l *Loader) loadKafka() *KafkaConfig {
	brokers := splitAndTrim(l.getEnvWithDefault("KAFKA_BROKERS", ""))
	if len(brokers) == 0 {
		return nil
	}

	c := &KafkaConfig{
		Brokers:        brokers,
		ClientID:       l.getEnvWithDefault("KAFKA_CLIENT_ID", "oauth-gateway"),
		Topic:          l.getEnvWithDefault("KAFKA_EVENTS_TOPIC", defaultEventTopic),
		ProduceTimeout: l.getEnvDurationOrDefault("KAFKA_PRODUCE_TIMEOUT", 5*time.Second),
		TLSEnabled:     l.getEnvBoolWithDefault("KAFKA_TLS_ENABLED", false),
		SASLUser:       l.getEnvWithDefault("KAFKA_SASL_USERNAME", ""),
		SASLPassword:   l.getEnvWithDefault("KAFKA_SASL_PASSWORD", ""),
		SASLMechanism:  l.getEnvWithDefault("KAFKA_SASL_MECHANISM", "PLAIN"),
	}
	if err := validator.ValidateTopic(c.Topic); err != nil {
		l.fail("KAFKA_EVENTS_TOPIC %q: %w", c.Topic, err)
	}
	if c.SASLUser != "" && c.SASLPassword == "" {
		l.fail("KAFKA_SASL_PASSWORD is required when KAFKA_SASL_USERNAME is set")
	}
	return c
}
