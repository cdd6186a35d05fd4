package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// SetMinProviderStake sets the stake a provider needs to accept a job.
// Providers already bound to jobs are not affected.
func (k *Keeper) SetMinProviderStake(ctx context.Context, admin sdk.AccAddress, amount math.Int) error {
	return k.updateParams(ctx, admin, "min_provider_stake", func(p *types.Params) (string, string, error) {
		if amount.IsNil() || amount.IsNegative() {
			return "", "", types.ErrInvalidParams.Wrap("min provider stake must be non-negative")
		}
		before := p.MinProviderStake.String()
		p.MinProviderStake = amount
		return before, amount.String(), nil
	})
}

// SetVerifier selects the verification oracle by registered name. An
// empty name leaves the registry without a verifier.
func (k *Keeper) SetVerifier(ctx context.Context, admin sdk.AccAddress, name string) error {
	return k.updateParams(ctx, admin, "verifier", func(p *types.Params) (string, string, error) {
		if name != "" {
			k.depsMu.RLock()
			_, ok := k.verifiers[name]
			k.depsMu.RUnlock()
			if !ok {
				return "", "", types.ErrVerifierNotConfigured.Wrapf("verifier %s is not registered", name)
			}
		}
		before := p.Verifier
		p.Verifier = name
		return before, name, nil
	})
}

// SetStakeLedger selects the stake ledger by registered name. An empty
// name leaves the registry without a stake ledger.
func (k *Keeper) SetStakeLedger(ctx context.Context, admin sdk.AccAddress, name string) error {
	return k.updateParams(ctx, admin, "stake_ledger", func(p *types.Params) (string, string, error) {
		if name != "" {
			k.depsMu.RLock()
			_, ok := k.stakeLedgers[name]
			k.depsMu.RUnlock()
			if !ok {
				return "", "", types.ErrStakeLedgerNotConfigured.Wrapf("stake ledger %s is not registered", name)
			}
		}
		before := p.StakeLedger
		p.StakeLedger = name
		return before, name, nil
	})
}

// SetLifecycle sets the lifecycle of jobs created from now on.
func (k *Keeper) SetLifecycle(ctx context.Context, admin sdk.AccAddress, lifecycle types.Lifecycle) error {
	return k.updateParams(ctx, admin, "lifecycle", func(p *types.Params) (string, string, error) {
		if err := lifecycle.Validate(); err != nil {
			return "", "", err
		}
		before := string(p.Lifecycle)
		p.Lifecycle = lifecycle
		return before, string(lifecycle), nil
	})
}

func (k *Keeper) updateParams(ctx context.Context, admin sdk.AccAddress, param string, fn func(*types.Params) (before, after string, err error)) error {
	if err := k.accessKeeper.RequireRole(ctx, accesstypes.RoleAdmin, admin); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	before, after, err := fn(&params)
	if err != nil {
		return err
	}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	txn.UnwrapContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeySender, admin.String()),
			sdk.NewAttribute(types.AttributeKeyParam, param),
			sdk.NewAttribute(types.AttributeKeyBefore, before),
			sdk.NewAttribute(types.AttributeKeyAfter, after),
		),
	)
	k.logger.Info("params updated", "param", param, "before", before, "after", after)
	return nil
}
