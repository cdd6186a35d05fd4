package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
	"github.com/paw-chain/zkmarket/x/token/types"
)

// AccessKeeper is the role check the token keeper needs for minting.
type AccessKeeper interface {
	RequireRole(ctx context.Context, role accesstypes.Role, account sdk.AccAddress) error
}

// Keeper of the token store
type Keeper struct {
	accessKeeper AccessKeeper
	hooks        types.TransferHooks
	blockedAddrs map[string]bool
	logger       log.Logger
}

// NewKeeper creates a new token Keeper instance. Transfers to blockedAddrs
// are refused at the message layer; keepers moving funds to their own
// module accounts go through the keeper methods directly.
func NewKeeper(logger log.Logger, accessKeeper AccessKeeper, blockedAddrs map[string]bool) *Keeper {
	if blockedAddrs == nil {
		blockedAddrs = make(map[string]bool)
	}
	return &Keeper{
		accessKeeper: accessKeeper,
		blockedAddrs: blockedAddrs,
		logger:       logger.With(log.ModuleKey, "x/"+types.ModuleName),
	}
}

// SetHooks sets the transfer hooks. It panics if hooks are already set.
func (k *Keeper) SetHooks(hooks types.TransferHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set token hooks twice")
	}
	k.hooks = hooks
	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// BlockedAddr reports whether addr may not receive messages-initiated transfers.
func (k Keeper) BlockedAddr(addr sdk.AccAddress) bool {
	return k.blockedAddrs[addr.String()]
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return txn.UnwrapContext(ctx).KVStore(types.StoreKey)
}

// BalanceOf returns account's balance in denom.
func (k Keeper) BalanceOf(ctx context.Context, denom string, account sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.BalanceKey(denom, account))
}

// Allowance returns how much spender may move out of owner's denom balance.
func (k Keeper) Allowance(ctx context.Context, denom string, owner, spender sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.AllowanceKey(denom, owner, spender))
}

// TotalSupply returns the minted supply of denom.
func (k Keeper) TotalSupply(ctx context.Context, denom string) math.Int {
	return k.getInt(ctx, types.SupplyKey(denom))
}

// Approve sets spender's allowance over owner's balance.
func (k Keeper) Approve(ctx context.Context, owner, spender sdk.AccAddress, amount sdk.Coin) error {
	if err := amount.Validate(); err != nil {
		return types.ErrInvalidAmount.Wrap(err.Error())
	}
	k.setInt(ctx, types.AllowanceKey(amount.Denom, owner, spender), amount.Amount)

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeApproval,
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, amount.Denom),
		),
	)
	return nil
}

// Transfer moves amount from one account to another.
func (k Keeper) Transfer(ctx context.Context, from, to sdk.AccAddress, amount sdk.Coin) error {
	if err := types.ValidatePositive(amount); err != nil {
		return err
	}
	if from.Empty() || to.Empty() {
		return types.ErrInvalidAddress.Wrap("empty sender or recipient")
	}

	fromBalance := k.BalanceOf(ctx, amount.Denom, from)
	if fromBalance.LT(amount.Amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", from, fromBalance, amount.Denom, amount)
	}

	k.setInt(ctx, types.BalanceKey(amount.Denom, from), fromBalance.Sub(amount.Amount))
	toBalance := k.BalanceOf(ctx, amount.Denom, to)
	k.setInt(ctx, types.BalanceKey(amount.Denom, to), toBalance.Add(amount.Amount))

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeySender, from.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, amount.Denom),
		),
	)

	if k.hooks != nil {
		if err := k.hooks.AfterTransfer(ctx, from, to, amount); err != nil {
			return types.ErrHookFailed.Wrap(err.Error())
		}
	}
	return nil
}

// TransferFrom moves amount out of from's balance on behalf of spender,
// consuming spender's allowance.
func (k Keeper) TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount sdk.Coin) error {
	if err := types.ValidatePositive(amount); err != nil {
		return err
	}

	allowance := k.Allowance(ctx, amount.Denom, from, spender)
	if allowance.LT(amount.Amount) {
		return types.ErrInsufficientAllowance.Wrapf("%s may spend %s%s of %s, needs %s",
			spender, allowance, amount.Denom, from, amount)
	}
	k.setInt(ctx, types.AllowanceKey(amount.Denom, from, spender), allowance.Sub(amount.Amount))

	return k.Transfer(ctx, from, to, amount)
}

// Mint creates amount for recipient. caller must be an admin.
func (k Keeper) Mint(ctx context.Context, caller, recipient sdk.AccAddress, amount sdk.Coin) error {
	if err := k.accessKeeper.RequireRole(ctx, accesstypes.RoleAdmin, caller); err != nil {
		return err
	}
	if err := k.mint(ctx, recipient, amount); err != nil {
		return err
	}

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeySender, caller.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, amount.Denom),
		),
	)
	return nil
}

func (k Keeper) mint(ctx context.Context, recipient sdk.AccAddress, amount sdk.Coin) error {
	if err := types.ValidatePositive(amount); err != nil {
		return err
	}
	if recipient.Empty() {
		return types.ErrInvalidAddress.Wrap("empty recipient")
	}
	k.setInt(ctx, types.BalanceKey(amount.Denom, recipient), k.BalanceOf(ctx, amount.Denom, recipient).Add(amount.Amount))
	k.setInt(ctx, types.SupplyKey(amount.Denom), k.TotalSupply(ctx, amount.Denom).Add(amount.Amount))
	return nil
}

// GetAllBalances returns account's balances across denoms.
func (k Keeper) GetAllBalances(ctx context.Context, account sdk.AccAddress) sdk.Coins {
	balances := sdk.NewCoins()
	k.IterateBalances(ctx, func(denom string, addr sdk.AccAddress, amount math.Int) bool {
		if addr.Equals(account) {
			balances = balances.Add(sdk.NewCoin(denom, amount))
		}
		return false
	})
	return balances
}

// IterateBalances calls cb for every non-zero balance until it returns true.
func (k Keeper) IterateBalances(ctx context.Context, cb func(denom string, addr sdk.AccAddress, amount math.Int) (stop bool)) {
	store := prefix.NewStore(k.getStore(ctx), types.BalancePrefix)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		key := iter.Key()
		denomLen := int(key[0])
		denom := string(key[1 : 1+denomLen])
		addr := sdk.AccAddress(key[2+denomLen:])

		var amount math.Int
		if err := amount.Unmarshal(iter.Value()); err != nil {
			panic(fmt.Errorf("corrupt balance for %s/%s: %w", denom, addr, err))
		}
		if amount.IsZero() {
			continue
		}
		if cb(denom, addr, amount) {
			return
		}
	}
}

func (k Keeper) getInt(ctx context.Context, key []byte) math.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupt amount at %x: %w", key, err))
	}
	return v
}

func (k Keeper) setInt(ctx context.Context, key []byte, v math.Int) {
	bz, err := v.Marshal()
	if err != nil {
		panic(err)
	}
	k.getStore(ctx).Set(key, bz)
}
