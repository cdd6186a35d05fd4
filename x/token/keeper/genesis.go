package keeper

import (
	"context"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/token/types"
)

// InitGenesis initializes the token module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		addr := sdk.MustAccAddressFromBech32(b.Address)
		for _, coin := range b.Coins {
			if err := k.mint(ctx, addr, coin); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportGenesis returns the token module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	byAddr := make(map[string]sdk.Coins)
	k.IterateBalances(ctx, func(denom string, addr sdk.AccAddress, amount math.Int) bool {
		byAddr[addr.String()] = byAddr[addr.String()].Add(sdk.NewCoin(denom, amount))
		return false
	})

	balances := make([]types.Balance, 0, len(byAddr))
	for addr, coins := range byAddr {
		balances = append(balances, types.Balance{Address: addr, Coins: coins})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Address < balances[j].Address })
	return &types.GenesisState{Balances: balances}
}
