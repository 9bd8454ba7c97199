// Package metrics exposes prometheus counters for the board engines.
package metrics

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Promotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardbot_promotions_total",
		Help: "Messages promoted to a board.",
	}, []string{"board"})

	Skips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardbot_promotion_skips_total",
		Help: "Reaction events that did not lead to a promotion, by reason.",
	}, []string{"board", "reason"})

	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardbot_promotion_failures_total",
		Help: "Promotion attempts abandoned because of an error.",
	}, []string{"board"})

	Votes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardbot_votes_total",
		Help: "Vote button presses, by action and outcome.",
	}, []string{"board", "action", "result"})

	LockWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boardbot_guild_lock_wait_seconds",
		Help:    "Time spent waiting for the per-guild promotion lock.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"board"})
)

// Serve starts the /metrics listener in the background and returns the server so the
// caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()
	return srv
}
