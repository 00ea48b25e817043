package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// recordClient is the subset of *kgo.Client the producer uses.
type recordClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Close()
}

// Producer publishes messages synchronously.
type Producer struct {
	client  recordClient
	timeout time.Duration
}

// NewProducer creates a franz-go client from cfg. No connection is made
// until the first produce or ping.
func NewProducer(cfg *Config) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(cfg.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProducerNotInitialized, err)
	}
	return newProducer(client, cfg.ProduceTimeout), nil
}

func newProducer(client recordClient, timeout time.Duration) *Producer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Producer{client: client, timeout: timeout}
}

// Produce sends msg and waits for the broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if msg == nil || msg.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidMessage)
	}

	data, err := marshalPayload(msg.Payload)
	if err != nil {
		return err
	}

	headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	record := &kgo.Record{
		Topic:   msg.Topic,
		Value:   data,
		Headers: headers,
	}
	if msg.Key != "" {
		record.Key = []byte(msg.Key)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		RecordProducerSendError(ctx, msg.Topic, errorType(err))
		return fmt.Errorf("%w: %w", ErrKafkaPublish, err)
	}
	RecordProducerMessageSent(ctx, msg.Topic)
	RecordProducerSendLatency(ctx, msg.Topic, time.Since(start).Seconds())
	return nil
}

// SendMessage is a convenience method to send a message with just topic and payload.
func (p *Producer) SendMessage(ctx context.Context, topic string, payload any) error {
	return p.Produce(ctx, &Message{Topic: topic, Payload: payload})
}

// Ping checks that at least one broker is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrKafkaHealthCheck, err)
	}
	return nil
}

func (p *Producer) Close() error {
	p.client.Close()
	return nil
}

func marshalPayload(payload any) ([]byte, error) {
	if b, ok := payload.([]byte); ok {
		return b, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal error: %v", ErrInvalidMessage, err)
	}
	return data, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "produce"
	}
}
