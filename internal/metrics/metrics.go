// Package metrics holds the Prometheus collectors recorded during a provisioning run.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the private registry all demolab collectors are registered with.
	Registry = prometheus.NewRegistry()

	// SingleStore Management API metrics
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "demolab",
			Subsystem: "singlestore",
			Name:      "api_calls_total",
			Help:      "Total number of SingleStore Management API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "demolab",
			Subsystem: "singlestore",
			Name:      "api_latency_seconds",
			Help:      "Latency of SingleStore Management API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
		},
		[]string{"operation"},
	)

	// Polling metrics
	pollAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "demolab",
			Subsystem: "poll",
			Name:      "attempts_total",
			Help:      "Total number of state fetches while waiting for a resource, by resource type and state",
		},
		[]string{"resource", "state"},
	)

	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "demolab",
			Subsystem: "poll",
			Name:      "duration_seconds",
			Help:      "Time spent waiting for a resource to become active, by resource type and result",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 8), // 5s to ~10min
		},
		[]string{"resource", "result"},
	)

	// Provisioning phase metrics
	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "demolab",
			Subsystem: "provisioning",
			Name:      "phase_duration_seconds",
			Help:      "Duration of provisioning phases in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68min
		},
		[]string{"phase", "result"},
	)
)

func init() {
	Registry.MustRegister(
		apiCallsTotal,
		apiLatency,
		pollAttemptsTotal,
		pollDuration,
		phaseDuration,
	)
}

// RecordAPICall records a SingleStore API call.
func RecordAPICall(operation string, err error, duration time.Duration) {
	apiCallsTotal.WithLabelValues(operation, result(err)).Inc()
	apiLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPollAttempt records one state fetch for a resource type.
func RecordPollAttempt(resource, state string) {
	pollAttemptsTotal.WithLabelValues(resource, state).Inc()
}

// RecordPollDuration records the total time of one wait.
func RecordPollDuration(resource string, err error, duration time.Duration) {
	pollDuration.WithLabelValues(resource, result(err)).Observe(duration.Seconds())
}

// RecordPhase records the duration of a provisioning phase.
func RecordPhase(phase string, err error, duration time.Duration) {
	phaseDuration.WithLabelValues(phase, result(err)).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Serve exposes Registry on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
