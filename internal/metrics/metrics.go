// Package metrics exposes Prometheus collectors for forecasting work.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sartorproj/regionforecast/forecast"
)

const namespace = "regionforecast"

// Collector records fit attempts, fallbacks and cache traffic on its own
// registry. It implements forecast.Observer.
type Collector struct {
	registry      *prometheus.Registry
	fitAttempts   *prometheus.CounterVec
	fitDuration   *prometheus.HistogramVec
	fallbacks     *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
}

// NewCollector constructs a collector with a fresh registry.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	fitAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fit",
		Name:      "attempts_total",
		Help:      "Total number of model fit attempts.",
	}, []string{"method", "outcome"})

	fitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "fit",
		Name:      "duration_seconds",
		Help:      "Latency distribution of model fit attempts.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"method"})

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of transitions to a fallback method.",
	}, []string{"from", "to"})

	cacheRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of result cache lookups.",
	}, []string{"result"})

	for _, c := range []prometheus.Collector{fitAttempts, fitDuration, fallbacks, cacheRequests} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:      registry,
		fitAttempts:   fitAttempts,
		fitDuration:   fitDuration,
		fallbacks:     fallbacks,
		cacheRequests: cacheRequests,
	}, nil
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveAttempt records one fit attempt.
func (c *Collector) ObserveAttempt(a forecast.Attempt) {
	outcome := "success"
	if !a.OK() {
		outcome = "failure"
	}
	c.fitAttempts.WithLabelValues(a.Method.String(), outcome).Inc()
	c.fitDuration.WithLabelValues(a.Method.String()).Observe(a.Elapsed.Seconds())
}

// ObserveFallback records a move from one method to the next.
func (c *Collector) ObserveFallback(from, to forecast.Method) {
	c.fallbacks.WithLabelValues(from.String(), to.String()).Inc()
}

// CacheHit records a cache lookup that found a result.
func (c *Collector) CacheHit() {
	c.cacheRequests.WithLabelValues("hit").Inc()
}

// CacheMiss records a cache lookup that found nothing.
func (c *Collector) CacheMiss() {
	c.cacheRequests.WithLabelValues("miss").Inc()
}

// WriteText writes every metric in the text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
