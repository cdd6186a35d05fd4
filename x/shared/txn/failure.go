package txn

import "github.com/paw-chain/zkmarket/x/shared/failure"

func init() {
	failure.Register(failure.KindState, ErrReentrantCall)
	failure.Register(failure.KindInternal, ErrOperationPanicked, ErrNoTransaction)
	failure.Register(failure.KindAuthorization, ErrInvalidCaller)
	failure.Register(failure.KindValidation, ErrUnknownRoute)
}
