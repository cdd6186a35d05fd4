package keeper

import (
	"context"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the compute MsgServer interface
func NewMsgServerImpl(keeper *Keeper) *msgServer {
	return &msgServer{Keeper: keeper}
}

// CreateJob handles MsgCreateJob
func (ms msgServer) CreateJob(ctx context.Context, msg *types.MsgCreateJob) (*types.MsgCreateJobResponse, error) {
	client, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	jobID, err := ms.Keeper.CreateJob(ctx, client, msg.DataRef, msg.Amount, msg.Deadline, msg.ProgramID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateJobResponse{JobID: jobID}, nil
}

// AcceptJob handles MsgAcceptJob
func (ms msgServer) AcceptJob(ctx context.Context, msg *types.MsgAcceptJob) (*types.MsgAcceptJobResponse, error) {
	provider, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.AcceptJob(ctx, provider, msg.JobID); err != nil {
		return nil, err
	}
	return &types.MsgAcceptJobResponse{}, nil
}

// CancelJob handles MsgCancelJob
func (ms msgServer) CancelJob(ctx context.Context, msg *types.MsgCancelJob) (*types.MsgCancelJobResponse, error) {
	client, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	refunded, err := ms.Keeper.CancelJob(ctx, client, msg.JobID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCancelJobResponse{Refunded: refunded}, nil
}

// SubmitResult handles MsgSubmitResult
func (ms msgServer) SubmitResult(ctx context.Context, msg *types.MsgSubmitResult) (*types.MsgSubmitResultResponse, error) {
	provider, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.SubmitResult(ctx, provider, msg.JobID, msg.ResultRef); err != nil {
		return nil, err
	}
	return &types.MsgSubmitResultResponse{}, nil
}

// ClaimAndPay handles MsgClaimAndPay
func (ms msgServer) ClaimAndPay(ctx context.Context, msg *types.MsgClaimAndPay) (*types.MsgClaimAndPayResponse, error) {
	client, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	paid, err := ms.Keeper.ClaimAndPay(ctx, client, msg.JobID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimAndPayResponse{Paid: paid}, nil
}

// SubmitProofAndClaim handles MsgSubmitProofAndClaim
func (ms msgServer) SubmitProofAndClaim(ctx context.Context, msg *types.MsgSubmitProofAndClaim) (*types.MsgSubmitProofAndClaimResponse, error) {
	provider, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	paid, err := ms.Keeper.SubmitProofAndClaim(ctx, provider, msg.JobID, msg.Proof, msg.OutputHash, msg.ResultRef)
	if err != nil {
		return nil, err
	}
	return &types.MsgSubmitProofAndClaimResponse{Paid: paid}, nil
}

func (ms msgServer) SetMinProviderStake(ctx context.Context, msg *types.MsgSetMinProviderStake) (*types.MsgUpdateParamsResponse, error) {
	admin, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.SetMinProviderStake(ctx, admin, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

func (ms msgServer) SetVerifier(ctx context.Context, msg *types.MsgSetVerifier) (*types.MsgUpdateParamsResponse, error) {
	admin, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.SetVerifier(ctx, admin, msg.Name); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

func (ms msgServer) SetStakeLedger(ctx context.Context, msg *types.MsgSetStakeLedger) (*types.MsgUpdateParamsResponse, error) {
	admin, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.SetStakeLedger(ctx, admin, msg.Name); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

func (ms msgServer) SetLifecycle(ctx context.Context, msg *types.MsgSetLifecycle) (*types.MsgUpdateParamsResponse, error) {
	admin, err := txn.VerifySigner(ctx, msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.Keeper.SetLifecycle(ctx, admin, msg.Lifecycle); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

// NewHandler routes compute messages to the msg server.
func NewHandler(k *Keeper) txn.Handler {
	ms := NewMsgServerImpl(k)
	return func(ctx context.Context, msg txn.Msg) (any, error) {
		switch m := msg.(type) {
		case *types.MsgCreateJob:
			return ms.CreateJob(ctx, m)
		case *types.MsgAcceptJob:
			return ms.AcceptJob(ctx, m)
		case *types.MsgCancelJob:
			return ms.CancelJob(ctx, m)
		case *types.MsgSubmitResult:
			return ms.SubmitResult(ctx, m)
		case *types.MsgClaimAndPay:
			return ms.ClaimAndPay(ctx, m)
		case *types.MsgSubmitProofAndClaim:
			return ms.SubmitProofAndClaim(ctx, m)
		case *types.MsgSetMinProviderStake:
			return ms.SetMinProviderStake(ctx, m)
		case *types.MsgSetVerifier:
			return ms.SetVerifier(ctx, m)
		case *types.MsgSetStakeLedger:
			return ms.SetStakeLedger(ctx, m)
		case *types.MsgSetLifecycle:
			return ms.SetLifecycle(ctx, m)
		default:
			return nil, txn.ErrUnknownRoute.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
