package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/failure"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// Stake deposits amount of the stake denom into provider's collateral.
// Repeated deposits accumulate.
func (k Keeper) Stake(ctx context.Context, provider sdk.AccAddress, amount math.Int) (math.Int, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrAmountMustBePositive
	}

	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(providerResource(provider))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	coin := sdk.NewCoin(params.StakeDenom, amount)
	if err := k.pullDeposit(ctx, params.StakingMode, provider, coin); err != nil {
		return math.Int{}, types.ErrTransferFailed.Wrapf("deposit of %s from %s: %s", coin, provider, err)
	}

	account, _, err := k.getProvider(ctx, provider)
	if err != nil {
		return math.Int{}, err
	}
	account.StakeAmount = account.StakeAmount.Add(amount)
	account.Exists = true
	if err := k.setProvider(ctx, account); err != nil {
		return math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakeDeposited,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyStakeAmount, account.StakeAmount.String()),
		),
	)
	return account.StakeAmount, nil
}

func (k Keeper) pullDeposit(ctx context.Context, mode types.StakingMode, provider sdk.AccAddress, coin sdk.Coin) error {
	return failure.Recover("token ledger", func() error {
		if mode == types.StakingModeNative {
			return k.tokenKeeper.Transfer(ctx, provider, k.moduleAddr, coin)
		}
		return k.tokenKeeper.TransferFrom(ctx, k.moduleAddr, provider, k.moduleAddr, coin)
	})
}

// Withdraw returns amount of provider's stake. The record is debited
// before funds leave the module.
func (k Keeper) Withdraw(ctx context.Context, provider sdk.AccAddress, amount math.Int) (math.Int, error) {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(providerResource(provider))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	account, found, err := k.getProvider(ctx, provider)
	if err != nil {
		return math.Int{}, err
	}
	if !found {
		return math.Int{}, types.ErrProviderNotFound.Wrapf("%s", provider)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrAmountMustBePositive
	}
	if amount.GT(account.StakeAmount) {
		return math.Int{}, &types.InsufficientStakeError{Available: account.StakeAmount, Requested: amount}
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	// EFFECTS before INTERACTIONS: a reentrant withdrawal sees the debit
	account.StakeAmount = account.StakeAmount.Sub(amount)
	if err := k.setProvider(ctx, account); err != nil {
		return math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakeWithdrawn,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyStakeAmount, account.StakeAmount.String()),
		),
	)

	coin := sdk.NewCoin(params.StakeDenom, amount)
	if err := k.send(ctx, provider, coin); err != nil {
		return math.Int{}, types.ErrTransferFailed.Wrapf("withdrawal of %s to %s: %s", coin, provider, err)
	}
	return account.StakeAmount, nil
}

// Slash seizes min(amount, stake) from provider. Seized funds go to the
// configured recipient, or stay locked in the module when none is set.
func (k Keeper) Slash(ctx context.Context, slasher, provider sdk.AccAddress, amount math.Int) (math.Int, error) {
	if err := k.accessKeeper.RequireRole(ctx, accesstypes.RoleSlasher, slasher); err != nil {
		return math.Int{}, err
	}

	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(providerResource(provider))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	account, found, err := k.getProvider(ctx, provider)
	if err != nil {
		return math.Int{}, err
	}
	if !found {
		return math.Int{}, types.ErrProviderNotFound.Wrapf("%s", provider)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrAmountMustBePositive
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	slashed := math.MinInt(amount, account.StakeAmount)
	account.StakeAmount = account.StakeAmount.Sub(slashed)
	if err := k.setProvider(ctx, account); err != nil {
		return math.Int{}, err
	}

	recipient, hasRecipient := params.SlashRecipientAddress()
	if !hasRecipient {
		k.setLockedSlashed(ctx, k.GetLockedSlashed(ctx).Add(slashed))
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderSlashed,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeySlasher, slasher.String()),
			sdk.NewAttribute(types.AttributeKeyRequested, amount.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, slashed.String()),
			sdk.NewAttribute(types.AttributeKeyStakeAmount, account.StakeAmount.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, params.SlashRecipient),
			sdk.NewAttribute(types.AttributeKeyLocked, strconv.FormatBool(!hasRecipient)),
		),
	)

	if hasRecipient && slashed.IsPositive() {
		coin := sdk.NewCoin(params.StakeDenom, slashed)
		if err := k.send(ctx, recipient, coin); err != nil {
			return math.Int{}, types.ErrTransferFailed.Wrapf("slashed funds %s to %s: %s", coin, recipient, err)
		}
	}

	k.logger.Info("provider slashed",
		"provider", provider.String(),
		"requested", amount.String(),
		"slashed", slashed.String(),
		"remaining", account.StakeAmount.String(),
	)
	return slashed, nil
}

// Rate records one job outcome for provider.
func (k Keeper) Rate(ctx context.Context, rater, provider sdk.AccAddress, success bool) error {
	if err := k.accessKeeper.RequireRole(ctx, accesstypes.RoleRater, rater); err != nil {
		return err
	}

	account, found, err := k.getProvider(ctx, provider)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrProviderNotFound.Wrapf("%s", provider)
	}

	account.JobsDone++
	if success {
		account.SuccessfulJobs++
	}
	if err := k.setProvider(ctx, account); err != nil {
		return err
	}

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderRated,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyRater, rater.String()),
			sdk.NewAttribute(types.AttributeKeySuccess, strconv.FormatBool(success)),
			sdk.NewAttribute(types.AttributeKeyJobsDone, strconv.FormatUint(account.JobsDone, 10)),
			sdk.NewAttribute(types.AttributeKeySuccessfulJobs, strconv.FormatUint(account.SuccessfulJobs, 10)),
		),
	)
	return nil
}

// SetSlashRecipient sets the slashed funds recipient. A nil recipient
// keeps future slashed funds locked in the module.
func (k Keeper) SetSlashRecipient(ctx context.Context, admin, recipient sdk.AccAddress) error {
	if err := k.accessKeeper.RequireRole(ctx, accesstypes.RoleAdmin, admin); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	before := params.SlashRecipient
	params.SlashRecipient = ""
	if !recipient.Empty() {
		params.SlashRecipient = recipient.String()
	}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSlashRecipientUpdated,
			sdk.NewAttribute(types.AttributeKeySender, admin.String()),
			sdk.NewAttribute(types.AttributeKeyBefore, before),
			sdk.NewAttribute(types.AttributeKeyAfter, params.SlashRecipient),
		),
	)
	return nil
}

func (k Keeper) send(ctx context.Context, to sdk.AccAddress, coin sdk.Coin) error {
	return failure.Recover("token ledger", func() error {
		return k.tokenKeeper.Transfer(ctx, k.moduleAddr, to, coin)
	})
}
