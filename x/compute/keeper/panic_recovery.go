package keeper

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// SafeExecute runs a call into an external dependency and converts a
// panic into an error, so a faulting oracle or ledger is handled the
// same way as one that reports failure.
func SafeExecute(ctx context.Context, handler string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger := txn.UnwrapContext(ctx).Logger()
			logger.Error("PANIC RECOVERED",
				"handler", handler,
				"panic", fmt.Sprintf("%v", r),
				"stack_trace", string(debug.Stack()),
			)
			NewComputeMetrics().PanicRecoveries.Inc()
			err = fmt.Errorf("panic in %s: %v", handler, r)
		}
	}()

	return fn()
}
