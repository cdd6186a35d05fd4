package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
)

// TokenKeeper defines the expected token ledger
type TokenKeeper interface {
	BalanceOf(ctx context.Context, denom string, account sdk.AccAddress) math.Int
	Transfer(ctx context.Context, from, to sdk.AccAddress, amount sdk.Coin) error
	TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount sdk.Coin) error
}

// AccessKeeper defines the expected role policy
type AccessKeeper interface {
	RequireRole(ctx context.Context, role accesstypes.Role, account sdk.AccAddress) error
}
