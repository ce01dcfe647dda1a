package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FriendshipTransitions counts friendship graph transitions by operation and outcome.
	FriendshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revlink_friendship_transitions_total",
		Help: "Total friendship graph transitions by operation and outcome",
	}, []string{"operation", "outcome"})

	// NotificationsDispatched counts persisted notifications by type.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revlink_notifications_dispatched_total",
		Help: "Total notifications persisted by type",
	}, []string{"type"})

	// PushDeliveries counts push delivery attempts by result
	// (sent, no_push_token, vendor_error).
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revlink_push_deliveries_total",
		Help: "Total push delivery attempts by result",
	}, []string{"result"})

	// ContactLookupHashes observes batch sizes of contact hash lookups.
	ContactLookupHashes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "revlink_contact_lookup_hashes",
		Help:    "Number of hashes per contact lookup request",
		Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
	})

	// RedisErrors counts failed redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revlink_redis_errors_total",
		Help: "Total redis command errors by command",
	}, []string{"command"})

	// VerificationAttempts counts OTP verification checks by result.
	VerificationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revlink_verification_attempts_total",
		Help: "Total OTP verification checks by result",
	}, []string{"result"})
)
