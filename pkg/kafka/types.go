package kafka

import "errors"

var (
	ErrProducerNotInitialized = errors.New("producer not initialized")
	ErrInvalidMessage         = errors.New("invalid message")
	ErrKafkaPublish           = errors.New("kafka publish error")
	ErrKafkaHealthCheck       = errors.New("kafka health check failed")
)

// Message represents a message to be produced to Kafka. Payload is sent
// as-is when it is a []byte and JSON encoded otherwise.
type Message struct {
	Topic   string
	Key     string
	Payload any
	Headers map[string]string
}
