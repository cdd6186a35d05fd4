package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the access MsgServer interface
func NewMsgServerImpl(keeper Keeper) *msgServer {
	return &msgServer{Keeper: keeper}
}

// GrantRole handles MsgGrantRole.
func (ms msgServer) GrantRole(ctx context.Context, msg *types.MsgGrantRole) (*types.MsgGrantRoleResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid account address: %s", err)
	}
	if err := ms.Keeper.GrantRole(ctx, sender, msg.Role, account); err != nil {
		return nil, err
	}
	return &types.MsgGrantRoleResponse{}, nil
}

// RevokeRole handles MsgRevokeRole.
func (ms msgServer) RevokeRole(ctx context.Context, msg *types.MsgRevokeRole) (*types.MsgRevokeRoleResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid account address: %s", err)
	}
	if err := ms.Keeper.RevokeRole(ctx, sender, msg.Role, account); err != nil {
		return nil, err
	}
	return &types.MsgRevokeRoleResponse{}, nil
}

// NewHandler routes access messages to the msg server.
func NewHandler(k Keeper) txn.Handler {
	ms := NewMsgServerImpl(k)
	return func(ctx context.Context, msg txn.Msg) (any, error) {
		switch m := msg.(type) {
		case *types.MsgGrantRole:
			return ms.GrantRole(ctx, m)
		case *types.MsgRevokeRole:
			return ms.RevokeRole(ctx, m)
		default:
			return nil, txn.ErrUnknownRoute.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
