package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

var (
	ErrAmountMustBePositive = errorsmod.Register(ModuleName, 2, "amount must be positive")
	ErrProviderNotFound     = errorsmod.Register(ModuleName, 3, "provider not found")
	ErrInsufficientStake    = errorsmod.Register(ModuleName, 4, "insufficient stake")
	ErrTransferFailed       = errorsmod.Register(ModuleName, 5, "transfer failed")
	ErrInvalidParams        = errorsmod.Register(ModuleName, 6, "invalid collateral params")
	ErrInvalidAddress       = errorsmod.Register(ModuleName, 7, "invalid address")
	ErrInvalidGenesis       = errorsmod.Register(ModuleName, 8, "invalid collateral genesis")
)

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrAmountMustBePositive: "Use a non-zero amount.",
	ErrProviderNotFound:     "Stake at least once before withdrawing, or check the provider address.",
	ErrInsufficientStake:    "Withdraw at most the staked amount. Query the provider record for the current stake.",
	ErrTransferFailed:       "Check the token balance and, in token staking mode, the allowance granted to the collateral module account.",
	ErrInvalidParams:        "Use a valid denom, a staking mode of token or native, and a bech32 recipient.",
}

// GetRecoverySuggestion returns the recovery suggestion for err.
func GetRecoverySuggestion(err error) string {
	for sentinel, suggestion := range RecoverySuggestions {
		if errorsmod.IsOf(err, sentinel) {
			return suggestion
		}
	}
	return ""
}

func init() {
	failure.Register(failure.KindValidation,
		ErrAmountMustBePositive, ErrInvalidParams, ErrInvalidAddress, ErrInvalidGenesis)
	failure.Register(failure.KindNotFound, ErrProviderNotFound)
	failure.Register(failure.KindState, ErrInsufficientStake)
	failure.Register(failure.KindExternal, ErrTransferFailed)
}
