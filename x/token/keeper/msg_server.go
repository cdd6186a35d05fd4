package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/shared/txn"
	"github.com/paw-chain/zkmarket/x/token/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the token MsgServer interface
func NewMsgServerImpl(keeper *Keeper) *msgServer {
	return &msgServer{Keeper: keeper}
}

func (ms msgServer) Transfer(ctx context.Context, msg *types.MsgTransfer) (*types.MsgTransferResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	recipient := sdk.MustAccAddressFromBech32(msg.Recipient)
	if ms.BlockedAddr(recipient) {
		return nil, types.ErrBlockedRecipient.Wrapf("%s is not allowed to receive funds", msg.Recipient)
	}
	if err := ms.Keeper.Transfer(ctx, sender, recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgTransferResponse{}, nil
}

func (ms msgServer) Approve(ctx context.Context, msg *types.MsgApprove) (*types.MsgApproveResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.Approve(ctx, sender, sdk.MustAccAddressFromBech32(msg.Spender), msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgApproveResponse{}, nil
}

func (ms msgServer) Mint(ctx context.Context, msg *types.MsgMint) (*types.MsgMintResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	recipient := sdk.MustAccAddressFromBech32(msg.Recipient)
	if ms.BlockedAddr(recipient) {
		return nil, types.ErrBlockedRecipient.Wrapf("%s is not allowed to receive funds", msg.Recipient)
	}
	if err := ms.Keeper.Mint(ctx, sender, recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgMintResponse{}, nil
}

// NewHandler routes token messages to the msg server.
func NewHandler(k *Keeper) txn.Handler {
	ms := NewMsgServerImpl(k)
	return func(ctx context.Context, msg txn.Msg) (any, error) {
		switch m := msg.(type) {
		case *types.MsgTransfer:
			return ms.Transfer(ctx, m)
		case *types.MsgApprove:
			return ms.Approve(ctx, m)
		case *types.MsgMint:
			return ms.Mint(ctx, m)
		default:
			return nil, txn.ErrUnknownRoute.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
