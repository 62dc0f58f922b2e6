package headerip

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxChainLength is the maximum number of entries allowed in a
	// proxy chain header. This prevents DoS attacks using extremely long
	// header values that could cause excessive memory allocation during
	// parsing. 100 accommodates complex multi-region, multi-CDN setups while
	// still providing protection. Typical proxy chains rarely exceed 5-10
	// entries.
	DefaultMaxChainLength = 100
)

// SecurityMode controls fallback behavior after a present source yields an
// invalid value.
type SecurityMode int

const (
	// SecurityModeStrict fails closed and stops on present-but-invalid
	// source values.
	SecurityModeStrict SecurityMode = iota + 1
	// SecurityModeLax allows fallback to lower-priority sources for those
	// values.
	SecurityModeLax
)

// String returns the canonical text representation of m.
func (m SecurityMode) String() string {
	switch m {
	case SecurityModeStrict:
		return "strict"
	case SecurityModeLax:
		return "lax"
	default:
		return "unknown"
	}
}

// valid reports whether m is a supported security mode.
func (m SecurityMode) valid() bool {
	return m == SecurityModeStrict || m == SecurityModeLax
}

// Option configures an Extractor.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// SetValue represents an optional per-call override value.
//
// Use Set(v) to mark an override as explicitly provided.
type SetValue[T any] struct {
	v   T
	set bool
}

// Set marks a value as explicitly set for OverrideOptions.
func Set[T any](value T) SetValue[T] {
	return SetValue[T]{v: value, set: true}
}

// isSet reports whether a value was explicitly provided.
func (s SetValue[T]) isSet() bool {
	return s.set
}

// value returns the stored value.
func (s SetValue[T]) value() T {
	return s.v
}

// OverrideOptions applies per-call policy overrides.
//
// Only policy-related fields are overrideable. Logger and Metrics remain
// fixed at extractor construction time.
type OverrideOptions struct {
	MaxChainLength  SetValue[int]
	SecurityMode    SetValue[SecurityMode]
	ForwardedHeader SetValue[bool]
	SourcePriority  SetValue[[]string]
}

func (o OverrideOptions) hasSetValues() bool {
	return o.MaxChainLength.isSet() ||
		o.SecurityMode.isSet() ||
		o.ForwardedHeader.isSet() ||
		o.SourcePriority.isSet()
}

// config holds extractor configuration state.
//
// It is mutated by Option functions during construction and override merging.
type config struct {
	maxChainLength int
	securityMode   SecurityMode
	allowForwarded bool

	sourcePriority   []string
	sourceHeaderKeys []string

	logger  Logger
	metrics Metrics

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

func canonicalizeSourceNames(sources []string) []string {
	resolved := make([]string, len(sources))
	for i, source := range sources {
		resolved[i] = canonicalSourceName(strings.TrimSpace(source))
	}
	return resolved
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}

func defaultConfig() *config {
	return &config{
		maxChainLength: DefaultMaxChainLength,
		securityMode:   SecurityModeStrict,
		logger:         noopLogger{},
		metrics:        noopMetrics{},
		sourcePriority: []string{
			SourceRemoteAddr,
		},
	}
}

func applyOptions(c *config, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	cfg.sourceHeaderKeys = sourceHeaderKeys(cfg.sourcePriority)

	if cfg.useMetricsFactory {
		if cfg.metricsFactory == nil {
			return nil, fmt.Errorf("metrics factory cannot be nil")
		}
	}

	validationConfig := cfg
	if cfg.useMetricsFactory {
		validationConfig = cfg.clone()
		validationConfig.metrics = noopMetrics{}
	}

	if err := validationConfig.validate(); err != nil {
		return nil, err
	}

	if cfg.useMetricsFactory {
		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics

		if err := cfg.validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *config) clone() *config {
	return &config{
		maxChainLength:    c.maxChainLength,
		securityMode:      c.securityMode,
		allowForwarded:    c.allowForwarded,
		sourcePriority:    cloneStrings(c.sourcePriority),
		sourceHeaderKeys:  cloneStrings(c.sourceHeaderKeys),
		logger:            c.logger,
		metrics:           c.metrics,
		metricsFactory:    c.metricsFactory,
		useMetricsFactory: c.useMetricsFactory,
	}
}

func (c *config) withOverrides(overrides ...OverrideOptions) (*config, error) {
	if len(overrides) == 0 {
		return c, nil
	}

	hasOverrides := false

	for _, override := range overrides {
		if override.hasSetValues() {
			hasOverrides = true
			break
		}
	}

	if !hasOverrides {
		return c, nil
	}

	effective := c.clone()

	for _, override := range overrides {
		if !override.hasSetValues() {
			continue
		}

		if override.MaxChainLength.isSet() {
			effective.maxChainLength = override.MaxChainLength.value()
		}
		if override.SecurityMode.isSet() {
			effective.securityMode = override.SecurityMode.value()
		}
		if override.ForwardedHeader.isSet() {
			effective.allowForwarded = override.ForwardedHeader.value()
		}

		if override.SourcePriority.isSet() {
			effective.sourcePriority = canonicalizeSourceNames(cloneStrings(override.SourcePriority.value()))
			effective.sourceHeaderKeys = sourceHeaderKeys(effective.sourcePriority)
		}
	}

	if err := effective.validate(); err != nil {
		return nil, err
	}

	return effective, nil
}
