package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "informatch_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SuggestionsComputed counts ranker runs by outcome (ok, no_profile, error).
	SuggestionsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_suggestions_computed_total",
		Help: "Total number of suggestion computations by outcome",
	}, []string{"outcome"})

	// SuggestionDuration records end-to-end ranker latency.
	SuggestionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "informatch_suggestion_duration_seconds",
		Help:    "Suggestion computation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// SuggestionCandidates records how many candidates each run returned.
	SuggestionCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "informatch_suggestion_candidates",
		Help:    "Number of candidates returned per suggestion computation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// RelationshipEvents counts relationship transitions by event.
	RelationshipEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_relationship_events_total",
		Help: "Total relationship transitions by event",
	}, []string{"event"})

	// CacheRequests counts cache-aside lookups by cache and result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_cache_requests_total",
		Help: "Cache-aside lookups by cache name and result",
	}, []string{"cache", "result"})

	// ChangeFeedPublishes counts change-feed publishes by result.
	ChangeFeedPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_change_feed_publish_total",
		Help: "Change feed publishes by event type and result",
	}, []string{"event_type", "result"})

	// ImageUploads counts profile image uploads by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informatch_image_uploads_total",
		Help: "Profile image uploads by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveSuggestions records one ranker run.
func ObserveSuggestions(outcome string, candidates int, start time.Time) {
	SuggestionsComputed.WithLabelValues(outcome).Inc()
	SuggestionDuration.Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		SuggestionCandidates.Observe(float64(candidates))
	}
}
