package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the collateral MsgServer interface
func NewMsgServerImpl(keeper Keeper) *msgServer {
	return &msgServer{Keeper: keeper}
}

func (ms msgServer) Stake(ctx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	stake, err := ms.Keeper.Stake(ctx, sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgStakeResponse{StakeAmount: stake}, nil
}

func (ms msgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	stake, err := ms.Keeper.Withdraw(ctx, sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{StakeAmount: stake}, nil
}

func (ms msgServer) Slash(ctx context.Context, msg *types.MsgSlash) (*types.MsgSlashResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	slashed, err := ms.Keeper.Slash(ctx, sender, sdk.MustAccAddressFromBech32(msg.Provider), msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgSlashResponse{Slashed: slashed}, nil
}

func (ms msgServer) Rate(ctx context.Context, msg *types.MsgRate) (*types.MsgRateResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.Rate(ctx, sender, sdk.MustAccAddressFromBech32(msg.Provider), msg.Success); err != nil {
		return nil, err
	}
	return &types.MsgRateResponse{}, nil
}

func (ms msgServer) SetSlashRecipient(ctx context.Context, msg *types.MsgSetSlashRecipient) (*types.MsgSetSlashRecipientResponse, error) {
	sender, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	var recipient sdk.AccAddress
	if msg.Recipient != "" {
		recipient = sdk.MustAccAddressFromBech32(msg.Recipient)
	}
	if err := ms.Keeper.SetSlashRecipient(ctx, sender, recipient); err != nil {
		return nil, err
	}
	return &types.MsgSetSlashRecipientResponse{}, nil
}

// NewHandler routes collateral messages to the msg server.
func NewHandler(k Keeper) txn.Handler {
	ms := NewMsgServerImpl(k)
	return func(ctx context.Context, msg txn.Msg) (any, error) {
		switch m := msg.(type) {
		case *types.MsgStake:
			return ms.Stake(ctx, m)
		case *types.MsgWithdraw:
			return ms.Withdraw(ctx, m)
		case *types.MsgSlash:
			return ms.Slash(ctx, m)
		case *types.MsgRate:
			return ms.Rate(ctx, m)
		case *types.MsgSetSlashRecipient:
			return ms.SetSlashRecipient(ctx, m)
		default:
			return nil, txn.ErrUnknownRoute.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
