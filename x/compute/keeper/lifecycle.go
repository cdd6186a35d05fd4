package keeper

import (
	"context"
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// CreateJob escrows amount from client and registers a job in Created.
// The job follows the lifecycle configured at creation time for its
// whole life. Nothing is stored if the escrow pull fails.
func (k *Keeper) CreateJob(ctx context.Context, client sdk.AccAddress, dataRef string, amount math.Int, deadline time.Time, programID types.Digest) (uint64, error) {
	sdkCtx := txn.UnwrapContext(ctx)

	if amount.IsNil() || !amount.IsPositive() {
		return 0, types.ErrEscrowAmountZero
	}
	now := sdkCtx.BlockTime()
	if !deadline.After(now) {
		return 0, types.ErrDeadlineMustBeInFuture.Wrapf("deadline %s is not after %s",
			deadline.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	if err := types.ValidateContentRef(dataRef); err != nil {
		return 0, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	if params.Lifecycle == types.LifecycleSinglePhase && programID.IsZero() {
		return 0, types.ErrMissingProgramID.Wrap("single-phase jobs settle by proof")
	}

	jobID := k.getNextJobID(ctx)
	coin := sdk.NewCoin(params.PaymentDenom, amount)
	if err := k.lockEscrow(ctx, client, coin, jobID); err != nil {
		return 0, err
	}

	job := types.Job{
		ID:             jobID,
		Client:         client.String(),
		DataRef:        dataRef,
		EscrowedAmount: amount,
		Denom:          params.PaymentDenom,
		Deadline:       deadline.UTC(),
		Status:         types.JobStatusCreated,
		ProgramID:      programID,
		Lifecycle:      params.Lifecycle,
		CreatedAt:      now,
	}
	if err := k.setJob(ctx, job, types.JobStatusUnspecified); err != nil {
		return 0, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCreated,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyClient, job.Client),
			sdk.NewAttribute(types.AttributeKeyDataRef, dataRef),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, job.Denom),
			sdk.NewAttribute(types.AttributeKeyDeadline, job.Deadline.Format(time.RFC3339Nano)),
			sdk.NewAttribute(types.AttributeKeyProgramID, programID.String()),
			sdk.NewAttribute(types.AttributeKeyLifecycle, string(job.Lifecycle)),
			sdk.NewAttribute(types.AttributeKeyCreatedAt, now.Format(time.RFC3339Nano)),
		),
	)

	k.metrics.JobsCreated.WithLabelValues(string(job.Lifecycle)).Inc()
	k.logger.Info("job created", "job_id", jobID, "client", job.Client, "amount", coin.String())
	return jobID, nil
}

// AcceptJob binds provider to a Created job. The first successful
// acceptance wins; later attempts fail the status check.
func (k *Keeper) AcceptJob(ctx context.Context, provider sdk.AccAddress, jobID uint64) error {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(jobResource(jobID))
	if err != nil {
		return err
	}
	defer release()

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JobStatusCreated {
		return types.NewInvalidStatusError(jobID, job.Status, types.JobStatusCreated)
	}
	if job.Expired(sdkCtx.BlockTime()) {
		return types.ErrDeadlinePassed.Wrapf("job %d deadline %s", jobID, job.Deadline.Format(time.RFC3339))
	}
	if bound, ok := job.ProviderAddress(); ok {
		return types.ErrJobAlreadyHasProvider.Wrapf("job %d is bound to %s", jobID, bound)
	}

	if err := k.requireEligibleProvider(ctx, provider); err != nil {
		return err
	}

	previous := job.Status
	job.Provider = provider.String()
	job.Status = types.JobStatusAccepted
	if err := k.setJob(ctx, *job, previous); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobAccepted,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyStatus, job.Status.String()),
		),
	)

	k.metrics.JobsAccepted.WithLabelValues(string(job.Lifecycle)).Inc()
	return nil
}

// requireEligibleProvider checks provider's stake against the current minimum.
func (k *Keeper) requireEligibleProvider(ctx context.Context, provider sdk.AccAddress) error {
	ledger, err := k.stakeLedger(ctx)
	if err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	info, err := ledger.GetInfo(ctx, provider)
	if err != nil {
		return err
	}
	if !info.Exists || info.StakeAmount.LT(params.MinProviderStake) {
		return types.ErrProviderNotRegisteredOrInsufficientStake.Wrapf(
			"%s has stake %s, minimum %s", provider, info.StakeAmount, params.MinProviderStake)
	}
	return nil
}

// CancelJob refunds a job's escrow to its client. Created jobs can always
// be cancelled by their client. Accepted jobs of either lifecycle can be
// cancelled once their deadline has passed.
func (k *Keeper) CancelJob(ctx context.Context, client sdk.AccAddress, jobID uint64) (math.Int, error) {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(jobResource(jobID))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return math.Int{}, err
	}
	if job.Client != client.String() {
		return math.Int{}, types.ErrOnlyClient.Wrapf("job %d belongs to %s", jobID, job.Client)
	}

	reason := "created"
	switch {
	case job.Status == types.JobStatusCreated:
	case job.Status == types.JobStatusAccepted && job.Expired(sdkCtx.BlockTime()):
		reason = "abandoned"
	case job.Status == types.JobStatusAccepted:
		return math.Int{}, types.NewInvalidStatusError(jobID, job.Status, types.JobStatusCreated, types.JobStatusAccepted)
	default:
		return math.Int{}, types.NewInvalidStatusError(jobID, job.Status, types.JobStatusCreated)
	}

	previous := job.Status
	now := sdkCtx.BlockTime()
	job.Status = types.JobStatusCancelled
	job.SettledAt = &now
	if err := k.setJob(ctx, *job, previous); err != nil {
		return math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCancelled,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyClient, job.Client),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyPrevStatus, previous.String()),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
		),
	)

	if err := k.refundEscrow(ctx, *job); err != nil {
		return math.Int{}, err
	}

	k.metrics.JobsCancelled.WithLabelValues(reason).Inc()
	return job.EscrowedAmount, nil
}

// SubmitResult records a result for a two-phase job and moves it to
// ResultSubmitted. Payment waits for ClaimAndPay or SubmitProofAndClaim.
func (k *Keeper) SubmitResult(ctx context.Context, provider sdk.AccAddress, jobID uint64, resultRef string) error {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(jobResource(jobID))
	if err != nil {
		return err
	}
	defer release()

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Lifecycle != types.LifecycleTwoPhase {
		return types.ErrLifecycleMismatch.Wrapf("job %d is %s; submit a proof instead", jobID, job.Lifecycle)
	}
	if err := k.checkSubmission(ctx, job, provider); err != nil {
		return err
	}
	if err := types.ValidateContentRef(resultRef); err != nil {
		return types.ErrInvalidResultRef.Wrap(err.Error())
	}

	previous := job.Status
	job.ResultRef = resultRef
	job.Status = types.JobStatusResultSubmitted
	if err := k.setJob(ctx, *job, previous); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobResultSubmitted,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyResultRef, resultRef),
			sdk.NewAttribute(types.AttributeKeySubmittedAt, sdkCtx.BlockTime().Format(time.RFC3339Nano)),
		),
	)
	return nil
}

// ClaimAndPay lets the client of a two-phase job accept the submitted
// result. The job completes, the provider is credited, and the escrow is
// paid out, all in one operation.
func (k *Keeper) ClaimAndPay(ctx context.Context, client sdk.AccAddress, jobID uint64) (math.Int, error) {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(jobResource(jobID))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return math.Int{}, err
	}
	if job.Client != client.String() {
		return math.Int{}, types.ErrOnlyClient.Wrapf("job %d belongs to %s", jobID, job.Client)
	}
	if job.Lifecycle != types.LifecycleTwoPhase {
		return math.Int{}, types.ErrLifecycleMismatch.Wrapf("job %d is %s", jobID, job.Lifecycle)
	}
	if job.Status != types.JobStatusResultSubmitted {
		return math.Int{}, types.NewInvalidStatusError(jobID, job.Status, types.JobStatusResultSubmitted)
	}

	if err := k.settle(ctx, job, job.ResultRef, types.Digest{}, ""); err != nil {
		return math.Int{}, err
	}
	return job.EscrowedAmount, nil
}

// checkSubmission enforces binding, status and deadline for a provider
// submission. It does not rate anything.
func (k *Keeper) checkSubmission(ctx context.Context, job *types.Job, provider sdk.AccAddress) error {
	bound, ok := job.ProviderAddress()
	if !ok || !bound.Equals(provider) {
		return types.ErrOnlyAssignedProviderCanSubmit.Wrapf("job %d", job.ID)
	}
	if job.Status != types.JobStatusAccepted {
		return types.NewInvalidStatusError(job.ID, job.Status, types.JobStatusAccepted)
	}
	if job.Expired(txn.UnwrapContext(ctx).BlockTime()) {
		return types.ErrDeadlinePassed.Wrapf("job %d deadline %s", job.ID, job.Deadline.Format(time.RFC3339))
	}
	return nil
}
