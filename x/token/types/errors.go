package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

var (
	ErrInvalidAmount         = errorsmod.Register(ModuleName, 2, "invalid amount")
	ErrInsufficientFunds     = errorsmod.Register(ModuleName, 3, "insufficient funds")
	ErrInsufficientAllowance = errorsmod.Register(ModuleName, 4, "insufficient allowance")
	ErrInvalidDenom          = errorsmod.Register(ModuleName, 5, "invalid denom")
	ErrInvalidAddress        = errorsmod.Register(ModuleName, 6, "invalid address")
	ErrBlockedRecipient      = errorsmod.Register(ModuleName, 7, "recipient is a module account")
	ErrHookFailed            = errorsmod.Register(ModuleName, 8, "transfer hook failed")
)

func init() {
	failure.Register(failure.KindValidation,
		ErrInvalidAmount, ErrInvalidDenom, ErrInvalidAddress, ErrBlockedRecipient)
	failure.Register(failure.KindState, ErrInsufficientFunds, ErrInsufficientAllowance)
	failure.Register(failure.KindExternal, ErrHookFailed)
}
