package headerip

import "fmt"

// MaxChainLength sets the maximum number of entries accepted in proxy chain
// headers.
func MaxChainLength(max int) Option {
	return func(c *config) error {
		c.maxChainLength = max
		return nil
	}
}

// WithLogger sets the logger implementation used for warning events.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked only for the final winning metrics option after
// option validation succeeds.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}

// Priority sets extraction source order.
//
// Source names are canonicalized so built-in aliases resolve to canonical
// constants; "CF-Connecting-IP" and SourceCFConnectingIP name the same
// source. Unknown names are treated as custom single-IP headers.
func Priority(sources ...string) Option {
	resolvedSources := canonicalizeSourceNames(cloneStrings(sources))

	return func(c *config) error {
		c.sourcePriority = cloneStrings(resolvedSources)
		return nil
	}
}

// WithForwardedHeader enables the RFC 7239 Forwarded source.
//
// The Forwarded parser is an optional capability; SourceForwarded is rejected
// in the priority list unless this option is set.
func WithForwardedHeader() Option {
	return func(c *config) error {
		c.allowForwarded = true
		return nil
	}
}

// WithSecurityMode sets strict or lax fallback behavior after a present
// source yields an invalid value.
func WithSecurityMode(mode SecurityMode) Option {
	return func(c *config) error {
		c.securityMode = mode
		return nil
	}
}
