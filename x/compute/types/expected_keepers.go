package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
)

// TokenKeeper defines the expected payment token ledger
type TokenKeeper interface {
	BalanceOf(ctx context.Context, denom string, account sdk.AccAddress) math.Int
	Transfer(ctx context.Context, from, to sdk.AccAddress, amount sdk.Coin) error
	TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount sdk.Coin) error
}

// AccessKeeper defines the expected role policy
type AccessKeeper interface {
	RequireRole(ctx context.Context, role accesstypes.Role, account sdk.AccAddress) error
}

// StakeLedger is the provider collateral and reputation ledger the
// registry consults on acceptance and updates on settlement.
type StakeLedger interface {
	GetInfo(ctx context.Context, provider sdk.AccAddress) (collateraltypes.ProviderAccount, error)
	Rate(ctx context.Context, rater, provider sdk.AccAddress, success bool) error
}

// Verifier is the proof verification oracle. Verify returns nil only for
// a valid proof; any other outcome is an error.
type Verifier interface {
	Verify(ctx context.Context, proof []byte, programID Digest, publicOutputHash Digest) error
}
