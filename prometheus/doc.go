// Package prometheus provides a Prometheus adapter for
// github.com/abczzz13/headerip.
//
// The package exposes headerip options that install a Prometheus-backed
// Metrics implementation on an extractor, using either the default registerer
// or a caller-provided registerer.
package prometheus
