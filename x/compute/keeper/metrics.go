package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ComputeMetrics holds all Prometheus metrics for the Compute module
type ComputeMetrics struct {
	// Job metrics
	JobsCreated   *prometheus.CounterVec
	JobsAccepted  *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
	JobsCancelled *prometheus.CounterVec

	// ZK proof metrics
	ProofsVerified        *prometheus.CounterVec
	ProofsRejected        *prometheus.CounterVec
	ProofVerificationTime prometheus.Histogram

	// Escrow metrics
	EscrowLocked   *prometheus.CounterVec
	EscrowReleased *prometheus.CounterVec
	EscrowRefunded *prometheus.CounterVec
	PayoutFailures *prometheus.CounterVec

	// Reputation metrics
	LatePenalties prometheus.Counter

	// Security metrics
	PanicRecoveries prometheus.Counter
}

var (
	computeMetricsOnce sync.Once
	computeMetrics     *ComputeMetrics
)

// NewComputeMetrics creates and registers Compute metrics (singleton pattern)
func NewComputeMetrics() *ComputeMetrics {
	computeMetricsOnce.Do(func() {
		computeMetrics = &ComputeMetrics{
			JobsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "jobs_created_total",
					Help:      "Total jobs created",
				},
				[]string{"lifecycle"},
			),
			JobsAccepted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "jobs_accepted_total",
					Help:      "Total jobs accepted by providers",
				},
				[]string{"lifecycle"},
			),
			JobsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "jobs_completed_total",
					Help:      "Total jobs completed and paid",
				},
				[]string{"lifecycle"},
			),
			JobsCancelled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "jobs_cancelled_total",
					Help:      "Total jobs cancelled and refunded",
				},
				[]string{"reason"},
			),

			ProofsVerified: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "proofs_verified_total",
					Help:      "Total proofs accepted by the verification oracle",
				},
				[]string{"verifier"},
			),
			ProofsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "proofs_rejected_total",
					Help:      "Total proofs rejected by the verification oracle",
				},
				[]string{"verifier"},
			),
			ProofVerificationTime: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "proof_verification_seconds",
					Help:      "Time spent in the verification oracle",
					Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
				},
			),

			EscrowLocked: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "escrow_locked_amount_total",
					Help:      "Total amount pulled into escrow",
				},
				[]string{"denom"},
			),
			EscrowReleased: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "escrow_released_amount_total",
					Help:      "Total escrow paid to providers",
				},
				[]string{"denom"},
			),
			EscrowRefunded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "escrow_refunded_amount_total",
					Help:      "Total escrow refunded to clients",
				},
				[]string{"denom"},
			),
			PayoutFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "payout_failures_total",
					Help:      "Payouts that failed and rolled their settlement back",
				},
				[]string{"denom"},
			),

			LatePenalties: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "late_submission_penalties_total",
					Help:      "Negative ratings recorded for late submissions",
				},
			),

			PanicRecoveries: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "zkmarket",
					Subsystem: "compute",
					Name:      "panic_recoveries_total",
					Help:      "Panics recovered from external dependencies",
				},
			),
		}
	})
	return computeMetrics
}
