package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/store/prefix"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/paw-chain/zkmarket/x/collateral/types"
)

// Providers returns a page of provider records in address-key order.
func (k Keeper) Providers(ctx context.Context, pageReq *query.PageRequest) ([]types.ProviderAccount, *query.PageResponse, error) {
	store := prefix.NewStore(k.getStore(ctx), types.ProviderPrefix)

	var providers []types.ProviderAccount
	pageRes, err := query.Paginate(store, pageReq, func(key, value []byte) error {
		var account types.ProviderAccount
		if err := json.Unmarshal(value, &account); err != nil {
			return err
		}
		providers = append(providers, account)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return providers, pageRes, nil
}
