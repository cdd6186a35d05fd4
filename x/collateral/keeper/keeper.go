package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// Keeper of the collateral store
type Keeper struct {
	tokenKeeper  types.TokenKeeper
	accessKeeper types.AccessKeeper
	moduleAddr   sdk.AccAddress
	logger       log.Logger
}

// NewKeeper creates a new collateral Keeper instance
func NewKeeper(logger log.Logger, tokenKeeper types.TokenKeeper, accessKeeper types.AccessKeeper) *Keeper {
	return &Keeper{
		tokenKeeper:  tokenKeeper,
		accessKeeper: accessKeeper,
		moduleAddr:   authtypes.NewModuleAddress(types.ModuleName),
		logger:       logger.With(log.ModuleKey, "x/"+types.ModuleName),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// ModuleAddress returns the account holding staked and locked slashed funds.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return k.moduleAddr
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return txn.UnwrapContext(ctx).KVStore(types.StoreKey)
}

// GetParams returns the current module parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return params, nil
}

// SetParams stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// getProvider loads a provider record. found is false for unknown providers.
func (k Keeper) getProvider(ctx context.Context, provider sdk.AccAddress) (types.ProviderAccount, bool, error) {
	bz := k.getStore(ctx).Get(types.ProviderKey(provider))
	if bz == nil {
		return types.EmptyProviderAccount(provider), false, nil
	}
	var account types.ProviderAccount
	if err := json.Unmarshal(bz, &account); err != nil {
		return types.ProviderAccount{}, false, fmt.Errorf("failed to unmarshal provider %s: %w", provider, err)
	}
	return account, true, nil
}

func (k Keeper) setProvider(ctx context.Context, account types.ProviderAccount) error {
	addr, err := sdk.AccAddressFromBech32(account.Address)
	if err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	bz, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal provider %s: %w", account.Address, err)
	}
	k.getStore(ctx).Set(types.ProviderKey(addr), bz)
	return nil
}

// GetInfo returns a provider's record, or the zero-value record for
// providers that never staked.
func (k Keeper) GetInfo(ctx context.Context, provider sdk.AccAddress) (types.ProviderAccount, error) {
	account, _, err := k.getProvider(ctx, provider)
	return account, err
}

// GetLockedSlashed returns slashed funds held by the module.
func (k Keeper) GetLockedSlashed(ctx context.Context) math.Int {
	bz := k.getStore(ctx).Get(types.LockedSlashedKey)
	if bz == nil {
		return math.ZeroInt()
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupt locked slashed balance: %w", err))
	}
	return v
}

func (k Keeper) setLockedSlashed(ctx context.Context, v math.Int) {
	bz, err := v.Marshal()
	if err != nil {
		panic(err)
	}
	k.getStore(ctx).Set(types.LockedSlashedKey, bz)
}

// IterateProviders calls cb for every provider record until it returns true.
func (k Keeper) IterateProviders(ctx context.Context, cb func(types.ProviderAccount) (stop bool)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ProviderPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var account types.ProviderAccount
		if err := json.Unmarshal(iter.Value(), &account); err != nil {
			return fmt.Errorf("failed to unmarshal provider at %x: %w", iter.Key(), err)
		}
		if cb(account) {
			return nil
		}
	}
	return nil
}

func providerResource(provider sdk.AccAddress) string {
	return types.ModuleName + "/provider/" + provider.String()
}
