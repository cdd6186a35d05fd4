package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/access/types"
)

// InitGenesis initializes the access module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, g := range gs.Grants {
		k.setRole(ctx, g.Role, sdk.MustAccAddressFromBech32(g.Address))
	}
	return nil
}

// ExportGenesis returns the access module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	grants := k.Grants(ctx)
	if grants == nil {
		grants = []types.Grant{}
	}
	return &types.GenesisState{Grants: grants}
}
