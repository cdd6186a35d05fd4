package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OutcomeOK is the outcome of a committed operation. Failed operations are
// recorded under their failure kind.
const OutcomeOK = "ok"

// OperationRecorder counts delivered messages by route, type and outcome.
type OperationRecorder struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewOperationRecorder creates the operation instruments on meter.
func NewOperationRecorder(meter metric.Meter) (*OperationRecorder, error) {
	operations, err := meter.Int64Counter("zkmarket.operations",
		metric.WithDescription("Delivered operations by route, type and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("zkmarket.operation.duration",
		metric.WithDescription("Operation latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &OperationRecorder{operations: operations, duration: duration}, nil
}

// Record records one delivered operation.
func (r *OperationRecorder) Record(ctx context.Context, route, msgType, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("type", msgType),
		attribute.String("outcome", outcome),
	)
	r.operations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}
