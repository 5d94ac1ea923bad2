// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction variants.
const (
	VariantStateless = "stateless"
	VariantSession   = "session"
)

// Prediction kinds.
const (
	KindCustom   = "custom"
	KindModel    = "model"
	KindFallback = "fallback"
	KindReset    = "reset"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_predictions_total",
			Help: "Total number of answered utterances",
		},
		[]string{"variant", "kind"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_prediction_failures_total",
			Help: "Failures absorbed by the prediction core, by pipeline stage",
		},
		[]string{"variant", "stage"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_prediction_duration_seconds",
			Help:    "Duration of a single message-response cycle",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"variant"},
	)

	CustomIntentMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_custom_intent_matches_total",
			Help: "Utterances short-circuited by the custom-intent matcher",
		},
		[]string{"rule"},
	)

	FollowUpStages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_follow_up_stage_total",
			Help: "Templated responses served, by bucket and stage",
		},
		[]string{"bucket", "stage"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbot_active_sessions",
			Help: "Sessions currently held by the session store",
		},
	)

	SessionEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_session_evictions_total",
			Help: "Sessions removed by the idle sweeper",
		},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbot_websocket_connections",
			Help: "Open streaming connections",
		},
	)

	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_escalations_total",
			Help: "Human handoff notifications, by outcome",
		},
		[]string{"status"},
	)
)
