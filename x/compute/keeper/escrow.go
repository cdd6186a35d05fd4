package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/failure"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// GetEscrowStats returns cumulative escrow accounting.
func (k *Keeper) GetEscrowStats(ctx context.Context) (types.EscrowStats, error) {
	bz := k.getStore(ctx).Get(types.EscrowStatsKey)
	if bz == nil {
		return types.NewEscrowStats(), nil
	}
	var stats types.EscrowStats
	if err := json.Unmarshal(bz, &stats); err != nil {
		return types.EscrowStats{}, fmt.Errorf("failed to unmarshal escrow stats: %w", err)
	}
	return stats, nil
}

func (k *Keeper) setEscrowStats(ctx context.Context, stats types.EscrowStats) error {
	bz, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal escrow stats: %w", err)
	}
	k.getStore(ctx).Set(types.EscrowStatsKey, bz)
	return nil
}

func (k *Keeper) updateEscrowStats(ctx context.Context, fn func(*types.EscrowStats)) error {
	stats, err := k.GetEscrowStats(ctx)
	if err != nil {
		return err
	}
	fn(&stats)
	return k.setEscrowStats(ctx, stats)
}

// lockEscrow pulls the job amount from the client into module custody.
// The client must have approved the module account beforehand.
func (k *Keeper) lockEscrow(ctx context.Context, client sdk.AccAddress, coin sdk.Coin, jobID uint64) error {
	err := failure.Recover("token ledger", func() error {
		return k.tokenKeeper.TransferFrom(ctx, k.moduleAddr, client, k.moduleAddr, coin)
	})
	if err != nil {
		return types.ErrTokenTransferFailed.Wrapf("escrow of %s from %s: %s", coin, client, err)
	}

	if err := k.updateEscrowStats(ctx, func(s *types.EscrowStats) {
		s.TotalEscrowed = s.TotalEscrowed.Add(coin.Amount)
	}); err != nil {
		return err
	}

	txn.UnwrapContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowLocked,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyClient, client.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, coin.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, coin.Denom),
		),
	)
	k.metrics.EscrowLocked.WithLabelValues(coin.Denom).Add(amountFloat(coin.Amount))
	return nil
}

// releaseEscrow pays the job's escrow to its provider. The caller must
// already have moved the job to Completed; the transfer is the last step.
func (k *Keeper) releaseEscrow(ctx context.Context, job types.Job, provider sdk.AccAddress) error {
	// 1. CHECK
	if job.Status != types.JobStatusCompleted {
		return types.NewInvalidStatusError(job.ID, job.Status, types.JobStatusCompleted)
	}

	// 2. EFFECTS
	if err := k.updateEscrowStats(ctx, func(s *types.EscrowStats) {
		s.TotalPaid = s.TotalPaid.Add(job.EscrowedAmount)
	}); err != nil {
		return err
	}

	txn.UnwrapContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowReleased,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(job.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipient, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, job.EscrowedAmount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, job.Denom),
		),
	)

	// 3. INTERACTIONS
	err := failure.Recover("token ledger", func() error {
		return k.tokenKeeper.Transfer(ctx, k.moduleAddr, provider, job.Escrow())
	})
	if err != nil {
		k.metrics.PayoutFailures.WithLabelValues(job.Denom).Inc()
		k.logger.Error("escrow payout failed, operation will be rolled back",
			"job_id", job.ID,
			"provider", provider.String(),
			"amount", job.Escrow().String(),
			"error", err,
		)
		return types.ErrTokenTransferFailed.Wrapf("payout of job %d to %s: %s", job.ID, provider, err)
	}

	k.metrics.EscrowReleased.WithLabelValues(job.Denom).Add(amountFloat(job.EscrowedAmount))
	return nil
}

// refundEscrow returns the job's escrow to its client. The caller must
// already have moved the job to Cancelled.
func (k *Keeper) refundEscrow(ctx context.Context, job types.Job) error {
	if job.Status != types.JobStatusCancelled {
		return types.NewInvalidStatusError(job.ID, job.Status, types.JobStatusCancelled)
	}

	if err := k.updateEscrowStats(ctx, func(s *types.EscrowStats) {
		s.TotalRefunded = s.TotalRefunded.Add(job.EscrowedAmount)
	}); err != nil {
		return err
	}

	client := job.ClientAddress()
	txn.UnwrapContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowRefunded,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(job.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipient, client.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, job.EscrowedAmount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, job.Denom),
		),
	)

	err := failure.Recover("token ledger", func() error {
		return k.tokenKeeper.Transfer(ctx, k.moduleAddr, client, job.Escrow())
	})
	if err != nil {
		return types.ErrTokenTransferFailed.Wrapf("refund of job %d to %s: %s", job.ID, client, err)
	}

	k.metrics.EscrowRefunded.WithLabelValues(job.Denom).Add(amountFloat(job.EscrowedAmount))
	return nil
}

func amountFloat(v math.Int) float64 {
	f, _ := v.ToLegacyDec().Float64()
	return f
}
