package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignupRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "signup", Name: "requests_total", Help: "Signup requests by outcome (created, invalid, error)."},
		[]string{"outcome"},
	)
	StoreInsertSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "signup", Name: "store_insert_seconds", Help: "Latency of document store inserts.", Buckets: prometheus.DefBuckets},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "signup", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "signup", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SignupRequests)
	reg.MustRegister(StoreInsertSeconds)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
