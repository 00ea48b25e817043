package kafka

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package variables for all metric instruments
var (
	OtelProducerMessagesSent metric.Int64Counter
	OtelProducerSendErrors   metric.Int64Counter
	OtelProducerSendLatency  metric.Float64Histogram
)

// InitOtelMetrics initializes the producer metric instruments from the
// global meter provider. Call it after the provider is installed.
func InitOtelMetrics() error {
	meter := otel.Meter("vocalia/kafka")
	var errs []error

	var err error
	OtelProducerMessagesSent, err = meter.Int64Counter(
		"kafka.producer.messages_sent",
		metric.WithDescription("Total number of messages sent to Kafka"),
		metric.WithUnit("1"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	OtelProducerSendErrors, err = meter.Int64Counter(
		"kafka.producer.send_errors",
		metric.WithDescription("Total number of send errors"),
		metric.WithUnit("1"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	OtelProducerSendLatency, err = meter.Float64Histogram(
		"kafka.producer.send_latency",
		metric.WithDescription("Time to send messages to Kafka"),
		metric.WithUnit("s"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RecordProducerMessageSent records a producer message sent metric
func RecordProducerMessageSent(ctx context.Context, topic string) {
	if OtelProducerMessagesSent != nil {
		OtelProducerMessagesSent.Add(ctx, 1, metric.WithAttributes(
			attribute.String("topic", topic),
		))
	}
}

// RecordProducerSendError records a producer send error metric
func RecordProducerSendError(ctx context.Context, topic string, errorType string) {
	if OtelProducerSendErrors != nil {
		OtelProducerSendErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("topic", topic),
			attribute.String("error_type", errorType),
		))
	}
}

// RecordProducerSendLatency records a producer send latency metric
func RecordProducerSendLatency(ctx context.Context, topic string, durationSeconds float64) {
	if OtelProducerSendLatency != nil {
		OtelProducerSendLatency.Record(ctx, durationSeconds, metric.WithAttributes(
			attribute.String("topic", topic),
		))
	}
}
