package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TransferHooks are invoked after a balance change has been written.
// A hook error aborts the surrounding operation.
type TransferHooks interface {
	AfterTransfer(ctx context.Context, from, to sdk.AccAddress, amount sdk.Coin) error
}

// MultiTransferHooks runs several hooks in order.
type MultiTransferHooks []TransferHooks

func NewMultiTransferHooks(hooks ...TransferHooks) MultiTransferHooks {
	return hooks
}

func (h MultiTransferHooks) AfterTransfer(ctx context.Context, from, to sdk.AccAddress, amount sdk.Coin) error {
	for _, hook := range h {
		if err := hook.AfterTransfer(ctx, from, to, amount); err != nil {
			return err
		}
	}
	return nil
}
