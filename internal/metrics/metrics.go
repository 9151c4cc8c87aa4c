package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ObjectsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_publish",
		Name:      "objects_stored_total",
		Help:      "Store requests by outcome (ok, failed).",
	}, []string{"outcome"})
	AssetSetsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "asset_publish",
		Name:      "asset_sets_published_total",
		Help:      "Total asset sets whose metadata upload was attempted.",
	})
	PublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "asset_publish",
		Name:      "publish_duration_seconds",
		Help:      "Wall time of a full asset set publish.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(ObjectsStored, AssetSetsPublished, PublishDuration)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
