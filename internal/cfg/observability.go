package cfg

type ObservabilityConfig struct {
	// OTLPEndpoint is optional; tracing export is disabled when empty.
	OTLPEndpoint string
	ServiceName  string
	SamplerRatio float64
}

func (l *Loader) loadObservability() ObservabilityConfig {
	c := ObservabilityConfig{
		OTLPEndpoint: l.getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  l.getEnvWithDefault("OTEL_SERVICE_NAME", "oauth-gateway"),
		SamplerRatio: l.getEnvFloatOrDefault("OTEL_SAMPLER_RATIO", 1.0),
	}
	if c.SamplerRatio < 0 || c.SamplerRatio > 1 {
		l.fail("OTEL_SAMPLER_RATIO must be in [0, 1]: %v", c.SamplerRatio)
	}
	return c
}
