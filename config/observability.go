package config

// ObservabilityConfig contains metrics and rate limiting configuration.
type ObservabilityConfig struct {
	// MetricsEnabled exposes Prometheus metrics at /metrics.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// CallbackRateLimit is the per-client request budget for the CAS
	// callback endpoint within CallbackRateWindow seconds.
	CallbackRateLimit  int `env:"CALLBACK_RATE_LIMIT"  envDefault:"30"`
	CallbackRateWindow int `env:"CALLBACK_RATE_WINDOW" envDefault:"60"`
}

// Sanitize applies guardrails to observability configuration values.
func (o *ObservabilityConfig) Sanitize() {
	if o.CallbackRateLimit <= 0 {
		o.CallbackRateLimit = 30
	}
	if o.CallbackRateWindow <= 0 {
		o.CallbackRateWindow = 60
	}
}
