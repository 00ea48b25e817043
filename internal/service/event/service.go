// Package event publishes gateway notifications to Kafka.
package event

import (
	"context"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/kafka"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/google/uuid"
)

const DefaultTopic = "vocalia.oauth.events"

// Producer is the subset of *kafka.Producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// Envelope is the wire shape of a published event.
type Envelope struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	TenantID   string            `json:"tenantId,omitempty"`
	Provider   string            `json:"provider"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Service adapts the Kafka producer to oauth2.EventPublisher.
type Service struct {
	producer Producer
	topic    string
	newID    func() string
}

var _ oauth2.EventPublisher = (*Service)(nil)

func NewService(producer Producer, topic string) *Service {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Service{producer: producer, topic: topic, newID: uuid.NewString}
}

// Publish keys the record by tenant so a tenant's events stay ordered;
// login events, which have no tenant, are keyed by provider.
func (s *Service) Publish(ctx context.Context, e oauth2.Event) error {
	key := e.TenantID
	if key == "" {
		key = e.Provider
	}

	return s.producer.Produce(ctx, &kafka.Message{
		Topic: s.topic,
		Key:   key,
		Payload: Envelope{
			ID:         s.newID(),
			Type:       e.Type,
			TenantID:   e.TenantID,
			Provider:   e.Provider,
			OccurredAt: e.OccurredAt,
			Attributes: e.Attributes,
		},
		Headers: map[string]string{"event_type": e.Type},
	})
}
