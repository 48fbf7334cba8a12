package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache tier label values.
const (
	tierLocal  = "local"
	tierShared = "shared"
)

var (
	// hits is a singleton for the per-tier hit counter.
	hits *prometheus.CounterVec //nolint:gochecknoglobals
	// misses is a singleton counting reads answered by neither tier.
	misses prometheus.Counter //nolint:gochecknoglobals
)

func initMetrics() {
	if hits != nil {
		return
	}

	hits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_cache_hits_total",
			Help: "Number of settings cache hits, differentiated by tier.",
		},
		[]string{"tier"},
	)

	misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settings_cache_misses_total",
			Help: "Number of settings reads answered by neither cache tier.",
		},
	)
}
