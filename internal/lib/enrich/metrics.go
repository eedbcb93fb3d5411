package enrich

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeintel_provider_calls_total",
		Help: "Provider calls issued by enrichment passes, by outcome.",
	}, []string{"provider", "outcome"})

	passDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routeintel_pass_duration_seconds",
		Help:    "Wall time of enrichment passes.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"pass"})

	skippedSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeintel_skipped_samples_total",
		Help: "Samples dropped by enrichment passes after a provider failure.",
	}, []string{"pass"})
)

func observeCall(provider string, err error) {
	providerCalls.WithLabelValues(provider, failureKind(err)).Inc()
}

// timePass records the duration of a pass; use as defer timePass("terrain")().
func timePass(pass string) func() {
	start := time.Now()
	return func() {
		passDuration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
	}
}
