package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/paw-chain/zkmarket/x/collateral/types"
)

// InitGenesis initializes the collateral module's state from a genesis state.
// Provider stakes are records only; the matching funds must be present in
// the module account through the token genesis.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	for _, p := range gs.Providers {
		if err := k.setProvider(ctx, p); err != nil {
			return err
		}
	}
	if !gs.LockedSlashed.IsNil() {
		k.setLockedSlashed(ctx, gs.LockedSlashed)
	}
	return nil
}

// ExportGenesis returns the collateral module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	providers := []types.ProviderAccount{}
	if err := k.IterateProviders(ctx, func(p types.ProviderAccount) bool {
		providers = append(providers, p)
		return false
	}); err != nil {
		return nil, err
	}

	return &types.GenesisState{
		Params:        params,
		Providers:     providers,
		LockedSlashed: k.GetLockedSlashed(ctx),
	}, nil
}

// TotalStaked sums every provider's stake.
func (k Keeper) TotalStaked(ctx context.Context) (math.Int, error) {
	total := math.ZeroInt()
	err := k.IterateProviders(ctx, func(p types.ProviderAccount) bool {
		total = total.Add(p.StakeAmount)
		return false
	})
	return total, err
}
