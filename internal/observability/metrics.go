package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// AuthzDecisions counts permission check outcomes by subject.
	AuthzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendora_authz_decisions_total",
		Help: "Total number of authorization decisions by subject and outcome",
	}, []string{"subject", "outcome"})

	// CouponValidations counts coupon validation outcomes.
	CouponValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendora_coupon_validations_total",
		Help: "Total number of coupon validations by outcome",
	}, []string{"outcome"})

	// CouponRedemptions counts redemption attempts by outcome.
	CouponRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendora_coupon_redemptions_total",
		Help: "Total number of coupon redemption attempts by outcome",
	}, []string{"outcome"})

	// InvitationEmails counts invitation email dispatch attempts.
	InvitationEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendora_invitation_emails_total",
		Help: "Total number of invitation email dispatch attempts by outcome",
	}, []string{"outcome"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendora_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
