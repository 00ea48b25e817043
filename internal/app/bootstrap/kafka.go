package bootstrap

import (
	"crypto/tls"
	"fmt"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/pkg/kafka"
)

// InitKafka creates the event producer. It returns nil when no brokers are
// configured.
func InitKafka(config *cfg.KafkaConfig) (*kafka.Producer, error) {
	if config == nil {
		return nil, nil
	}

	kc := kafka.DefaultConfig(config.Brokers)
	kc.ClientID = config.ClientID
	kc.ProduceTimeout = config.ProduceTimeout
	if config.TLSEnabled {
		kc.WithTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	if config.SASLUser != "" {
		kc.WithSASL(config.SASLMechanism, config.SASLUser, config.SASLPassword)
	}

	if err := kafka.InitOtelMetrics(); err != nil {
		return nil, fmt.Errorf("kafka metrics: %w", err)
	}

	producer, err := kafka.NewProducer(kc)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}
