package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

var (
	ErrUnauthorized   = errorsmod.Register(ModuleName, 2, "unauthorized")
	ErrInvalidRole    = errorsmod.Register(ModuleName, 3, "invalid role")
	ErrLastAdmin      = errorsmod.Register(ModuleName, 4, "cannot revoke the last admin")
	ErrInvalidAddress = errorsmod.Register(ModuleName, 5, "invalid address")
	ErrRoleNotGranted = errorsmod.Register(ModuleName, 6, "role not granted")
	ErrInvalidGenesis = errorsmod.Register(ModuleName, 7, "invalid access genesis")
)

func init() {
	failure.Register(failure.KindAuthorization, ErrUnauthorized)
	failure.Register(failure.KindValidation, ErrInvalidRole, ErrInvalidAddress, ErrInvalidGenesis)
	failure.Register(failure.KindState, ErrLastAdmin, ErrRoleNotGranted)
}
