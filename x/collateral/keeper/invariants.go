package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// RegisterInvariants registers all collateral module invariants
func RegisterInvariants(ir txn.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "stake-backing", StakeBackingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "provider-records", ProviderRecordsInvariant(k))
}

// AllInvariants runs all invariants of the collateral module
func AllInvariants(k Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		if res, stop := StakeBackingInvariant(k)(ctx); stop {
			return res, stop
		}
		return ProviderRecordsInvariant(k)(ctx)
	}
}

// StakeBackingInvariant checks that the module account holds exactly the
// staked funds plus locked slashed funds.
func StakeBackingInvariant(k Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake-backing", err.Error()), true
		}
		staked, err := k.TotalStaked(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake-backing", err.Error()), true
		}
		expected := staked.Add(k.GetLockedSlashed(ctx))
		held := k.tokenKeeper.BalanceOf(ctx, params.StakeDenom, k.moduleAddr)

		broken := !held.Equal(expected)
		return sdk.FormatInvariant(
			types.ModuleName, "stake-backing",
			fmt.Sprintf("module balance %s%s, staked %s, locked slashed %s",
				held, params.StakeDenom, staked, k.GetLockedSlashed(ctx)),
		), broken
	}
}

// ProviderRecordsInvariant checks successful jobs never exceed jobs done
// and every stored record exists.
func ProviderRecordsInvariant(k Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)
		err := k.IterateProviders(ctx, func(p types.ProviderAccount) bool {
			if err := p.Validate(); err != nil {
				msg += err.Error() + "\n"
				broken = true
			} else if !p.Exists {
				msg += fmt.Sprintf("provider %s stored without exists flag\n", p.Address)
				broken = true
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "provider-records", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "provider-records", msg), broken
	}
}
