package keeper

import (
	"context"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// Keeper of the access store
type Keeper struct {
	logger log.Logger
}

// NewKeeper creates a new access Keeper instance
func NewKeeper(logger log.Logger) *Keeper {
	return &Keeper{
		logger: logger.With(log.ModuleKey, "x/"+types.ModuleName),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return txn.UnwrapContext(ctx).KVStore(types.StoreKey)
}

// HasRole reports whether account holds role.
func (k Keeper) HasRole(ctx context.Context, role types.Role, account sdk.AccAddress) bool {
	if account.Empty() {
		return false
	}
	return k.getStore(ctx).Has(types.RoleKey(role, account))
}

// RequireRole returns an UnauthorizedError unless account holds role.
func (k Keeper) RequireRole(ctx context.Context, role types.Role, account sdk.AccAddress) error {
	if !k.HasRole(ctx, role, account) {
		return types.NewUnauthorizedError(account, role)
	}
	return nil
}

// GrantRole grants role to account on behalf of caller, who must be an
// admin. Granting a role the account already holds is a no-op.
func (k Keeper) GrantRole(ctx context.Context, caller sdk.AccAddress, role types.Role, account sdk.AccAddress) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if account.Empty() {
		return types.ErrInvalidAddress.Wrap("empty account")
	}
	if err := k.RequireRole(ctx, types.RoleAdmin, caller); err != nil {
		return err
	}
	if k.HasRole(ctx, role, account) {
		return nil
	}

	k.setRole(ctx, role, account)

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoleGranted,
			sdk.NewAttribute(types.AttributeKeyRole, string(role)),
			sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
			sdk.NewAttribute(types.AttributeKeySender, caller.String()),
		),
	)
	k.logger.Info("role granted", "role", role, "account", account.String(), "sender", caller.String())
	return nil
}

// RevokeRole removes role from account on behalf of caller, who must be
// an admin. The last remaining admin cannot be revoked.
func (k Keeper) RevokeRole(ctx context.Context, caller sdk.AccAddress, role types.Role, account sdk.AccAddress) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if err := k.RequireRole(ctx, types.RoleAdmin, caller); err != nil {
		return err
	}
	if !k.HasRole(ctx, role, account) {
		return types.ErrRoleNotGranted.Wrapf("%s does not hold %s", account, role)
	}
	if role == types.RoleAdmin && len(k.Members(ctx, types.RoleAdmin)) == 1 {
		return types.ErrLastAdmin
	}

	k.getStore(ctx).Delete(types.RoleKey(role, account))

	sdkCtx := txn.UnwrapContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoleRevoked,
			sdk.NewAttribute(types.AttributeKeyRole, string(role)),
			sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
			sdk.NewAttribute(types.AttributeKeySender, caller.String()),
		),
	)
	k.logger.Info("role revoked", "role", role, "account", account.String(), "sender", caller.String())
	return nil
}

// Members returns every account holding role.
func (k Keeper) Members(ctx context.Context, role types.Role) []sdk.AccAddress {
	store := prefix.NewStore(k.getStore(ctx), types.RolePrefixKey(role))
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	var members []sdk.AccAddress
	for ; iter.Valid(); iter.Next() {
		// keys are length-prefixed addresses
		key := iter.Key()
		members = append(members, sdk.AccAddress(key[1:]))
	}
	return members
}

// Grants returns every grant, ordered by role.
func (k Keeper) Grants(ctx context.Context) []types.Grant {
	var grants []types.Grant
	for _, role := range types.AllRoles {
		for _, member := range k.Members(ctx, role) {
			grants = append(grants, types.Grant{Role: role, Address: member.String()})
		}
	}
	return grants
}

func (k Keeper) setRole(ctx context.Context, role types.Role, account sdk.AccAddress) {
	k.getStore(ctx).Set(types.RoleKey(role, account), []byte{0x01})
}
