package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sartorproj/regionforecast/forecast"
)

func TestCollectorRecordsAttempts(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}

	collector.ObserveAttempt(forecast.Attempt{Method: forecast.MethodHolt, Err: errors.New("no fit"), Elapsed: time.Millisecond})
	collector.ObserveAttempt(forecast.Attempt{Method: forecast.MethodLinear, Values: []float64{1}, Elapsed: time.Millisecond})
	collector.ObserveFallback(forecast.MethodHolt, forecast.MethodLinear)

	if got := testutil.ToFloat64(collector.fitAttempts.WithLabelValues("holt", "failure")); got != 1 {
		t.Fatalf("holt failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.fitAttempts.WithLabelValues("linear", "success")); got != 1 {
		t.Fatalf("linear successes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.fallbacks.WithLabelValues("holt", "linear")); got != 1 {
		t.Fatalf("fallbacks = %v, want 1", got)
	}
}

func TestCollectorWriteText(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}

	collector.CacheMiss()
	collector.CacheHit()
	collector.CacheHit()
	collector.ObserveAttempt(forecast.Attempt{Method: forecast.MethodNaive, Values: []float64{1}})

	var buf bytes.Buffer
	if err := collector.WriteText(&buf); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, `regionforecast_cache_requests_total{result="hit"} 2`) {
		t.Fatalf("cache hits not recorded, body=%q", body)
	}
	if !strings.Contains(body, `regionforecast_fit_duration_seconds_count{method="naive"} 1`) {
		t.Fatalf("fit duration not recorded, body=%q", body)
	}
}
