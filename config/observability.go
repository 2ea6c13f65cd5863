package config

import (
	"regexp"
	"strings"
)

const defaultMetricsNamespace = "booking_api"

var metricsNamespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ObservabilityConfig groups configuration that controls metrics.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls the Prometheus metrics sink and its
// /metrics endpoint.
type ObservabilityMetricsConfig struct {
	Enabled   bool   `env:"OBSERVABILITY_PROMETHEUS_ENABLED"   envDefault:"false"`
	Namespace string `env:"OBSERVABILITY_PROMETHEUS_NAMESPACE" envDefault:"booking_api"`
}

// Sanitize normalises the namespace into a valid Prometheus name prefix.
func (c *ObservabilityMetricsConfig) Sanitize() {
	ns := strings.ReplaceAll(strings.TrimSpace(c.Namespace), "-", "_")
	if !metricsNamespacePattern.MatchString(ns) {
		ns = defaultMetricsNamespace
	}
	c.Namespace = ns
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.Namespace != ""
}
