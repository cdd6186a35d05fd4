package txn

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the transaction layer.
const Codespace = "txn"

var (
	ErrReentrantCall     = errorsmod.Register(Codespace, 2, "reentrant call rejected")
	ErrOperationPanicked = errorsmod.Register(Codespace, 3, "operation panicked")
	ErrNoTransaction     = errorsmod.Register(Codespace, 4, "no active transaction in context")
	ErrInvalidCaller     = errorsmod.Register(Codespace, 5, "invalid caller")
	ErrUnknownRoute      = errorsmod.Register(Codespace, 6, "unknown message route")
)
