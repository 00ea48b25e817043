package oauth2

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "vocalia/oauth2"

// unknownProviderLabel replaces caller-supplied provider ids that are not
// registered, keeping metric cardinality bounded by the registry.
const unknownProviderLabel = "unknown"

type gatewayMetrics struct {
	statesIssued  metric.Int64Counter
	exchanges     metric.Int64Counter
	exchangeTime  metric.Float64Histogram
	workspaceSave metric.Int64Counter
}

func newGatewayMetrics(mp metric.MeterProvider) (*gatewayMetrics, error) {
	meter := mp.Meter(meterName)
	m := &gatewayMetrics{}
	var errs []error

	var err error
	m.statesIssued, err = meter.Int64Counter(
		"oauth.states_issued",
		metric.WithDescription("Authorization states issued"),
		metric.WithUnit("1"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	m.exchanges, err = meter.Int64Counter(
		"oauth.exchanges",
		metric.WithDescription("Authorization code exchanges by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	m.exchangeTime, err = meter.Float64Histogram(
		"oauth.exchange_duration",
		metric.WithDescription("Time from callback to completed exchange"),
		metric.WithUnit("s"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	m.workspaceSave, err = meter.Int64Counter(
		"oauth.workspace_credentials_saved",
		metric.WithDescription("Credentials additionally stored under a workspace key"),
		metric.WithUnit("1"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func (m *gatewayMetrics) recordState(ctx context.Context, provider string, purpose Purpose) {
	m.statesIssued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("purpose", string(purpose)),
	))
}

func (m *gatewayMetrics) recordExchange(ctx context.Context, provider string, purpose Purpose, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = Code(err)
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("purpose", string(purpose)),
		attribute.String("outcome", outcome),
	)
	m.exchanges.Add(ctx, 1, attrs)
	m.exchangeTime.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (m *gatewayMetrics) recordWorkspaceSave(ctx context.Context, provider string) {
	m.workspaceSave.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
