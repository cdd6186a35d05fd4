package keeper

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// SubmitProofAndClaim settles a job against a proof of correct execution.
//
// The sequence is strictly ordered: re-validate the job, call the
// verification oracle, and only on success complete the job, credit the
// provider and pay out. The whole sequence runs in one operation, so a
// payout failure leaves the job exactly as it was before the call.
//
// Accepted jobs must be submitted before their deadline. Two-phase jobs
// that already have a result may also be finalized by proof.
func (k *Keeper) SubmitProofAndClaim(ctx context.Context, provider sdk.AccAddress, jobID uint64, proof []byte, outputHash types.Digest, resultRef string) (math.Int, error) {
	sdkCtx := txn.UnwrapContext(ctx)
	release, err := sdkCtx.Enter(jobResource(jobID))
	if err != nil {
		return math.Int{}, err
	}
	defer release()

	// 1. Re-validate existence, binding, status and deadline
	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return math.Int{}, err
	}
	if job.Status == types.JobStatusResultSubmitted {
		bound, ok := job.ProviderAddress()
		if !ok || !bound.Equals(provider) {
			return math.Int{}, types.ErrOnlyAssignedProviderCanSubmit.Wrapf("job %d", jobID)
		}
	} else if err := k.checkSubmission(ctx, job, provider); err != nil {
		return math.Int{}, err
	}
	if job.ProgramID.IsZero() {
		return math.Int{}, types.ErrMissingProgramID.Wrapf("job %d has no program to verify against", jobID)
	}
	if len(proof) > types.MaxProofSize {
		return math.Int{}, types.ErrProofTooLarge.Wrapf("%d bytes exceeds %d", len(proof), types.MaxProofSize)
	}
	if resultRef == "" {
		resultRef = job.ResultRef
	}
	if err := types.ValidateContentRef(resultRef); err != nil {
		return math.Int{}, types.ErrInvalidResultRef.Wrap(err.Error())
	}

	// 2. Oracle
	verifierName, err := k.verifyProof(ctx, job, proof, outputHash)
	if err != nil {
		return math.Int{}, err
	}

	// 3. Effects, reputation and payout
	if err := k.settle(ctx, job, resultRef, outputHash, verifierName); err != nil {
		return math.Int{}, err
	}
	return job.EscrowedAmount, nil
}

// verifyProof calls the configured oracle. Any oracle fault, including a
// panic, is reported as ErrZKProofVerificationFailed.
func (k *Keeper) verifyProof(ctx context.Context, job *types.Job, proof []byte, outputHash types.Digest) (string, error) {
	verifier, name, err := k.verifier(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	err = SafeExecute(ctx, "verifier/"+name, func() error {
		return verifier.Verify(ctx, proof, job.ProgramID, outputHash)
	})
	k.metrics.ProofVerificationTime.Observe(time.Since(start).Seconds())

	if err != nil {
		k.metrics.ProofsRejected.WithLabelValues(name).Inc()
		k.logger.Info("proof rejected",
			"job_id", job.ID,
			"program_id", job.ProgramID.String(),
			"verifier", name,
			"error", err,
		)
		txn.UnwrapContext(ctx).EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProofRejected,
				sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(job.ID, 10)),
				sdk.NewAttribute(types.AttributeKeyVerifier, name),
				sdk.NewAttribute(types.AttributeKeyReason, err.Error()),
			),
		)
		return "", types.ErrZKProofVerificationFailed.Wrapf("job %d: %s", job.ID, err)
	}

	k.metrics.ProofsVerified.WithLabelValues(name).Inc()
	txn.UnwrapContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProofVerified,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(job.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyProgramID, job.ProgramID.String()),
			sdk.NewAttribute(types.AttributeKeyOutputHash, outputHash.String()),
			sdk.NewAttribute(types.AttributeKeyVerifier, name),
		),
	)
	return name, nil
}

// settle completes job: status and result first, then the provider's
// reputation, then the payout.
func (k *Keeper) settle(ctx context.Context, job *types.Job, resultRef string, outputHash types.Digest, verifierName string) error {
	sdkCtx := txn.UnwrapContext(ctx)
	provider, ok := job.ProviderAddress()
	if !ok {
		return types.ErrOnlyAssignedProviderCanSubmit.Wrapf("job %d has no provider", job.ID)
	}

	previous := job.Status
	now := sdkCtx.BlockTime()
	job.Status = types.JobStatusCompleted
	job.ResultRef = resultRef
	job.OutputHash = outputHash
	job.SettledAt = &now
	if err := k.setJob(ctx, *job, previous); err != nil {
		return err
	}

	if err := k.rateProvider(ctx, provider, true); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCompleted,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(job.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyClient, job.Client),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyResultRef, resultRef),
			sdk.NewAttribute(types.AttributeKeyOutputHash, outputHash.String()),
			sdk.NewAttribute(types.AttributeKeyVerifier, verifierName),
			sdk.NewAttribute(types.AttributeKeyPrevStatus, previous.String()),
		),
	)

	if err := k.releaseEscrow(ctx, *job, provider); err != nil {
		return err
	}

	k.metrics.JobsCompleted.WithLabelValues(string(job.Lifecycle)).Inc()
	k.logger.Info("job completed", "job_id", job.ID, "provider", job.Provider, "amount", job.Escrow().String())
	return nil
}

// rateProvider records an outcome on the configured stake ledger, acting
// as the registry's module account. With no ledger configured, reputation
// tracking is off and nothing is recorded.
func (k *Keeper) rateProvider(ctx context.Context, provider sdk.AccAddress, success bool) error {
	ledger, err := k.stakeLedger(ctx)
	if errors.Is(err, types.ErrStakeLedgerNotConfigured) {
		k.logger.Debug("reputation not recorded, no stake ledger configured", "provider", provider.String())
		return nil
	}
	if err != nil {
		return err
	}

	asModule := txn.UnwrapContext(ctx).WithCaller(k.moduleAddr)
	if err := ledger.Rate(asModule, k.moduleAddr, provider, success); err != nil {
		return types.ErrReputationUpdateFailed.Wrapf("rate %s success=%t: %s", provider, success, err)
	}
	return nil
}

// PenalizeLateSubmission records a failed job for the bound provider of
// an Accepted job whose deadline has passed. It runs as its own operation
// after the late submission itself was rejected and rolled back.
func (k *Keeper) PenalizeLateSubmission(ctx context.Context, provider sdk.AccAddress, jobID uint64) error {
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
	bound, ok := job.ProviderAddress()
	if !ok || !bound.Equals(provider) {
		return types.ErrOnlyAssignedProviderCanSubmit.Wrapf("job %d", jobID)
	}
	if job.Status != types.JobStatusAccepted {
		return types.NewInvalidStatusError(jobID, job.Status, types.JobStatusAccepted)
	}
	if !job.Expired(sdkCtx.BlockTime()) {
		return types.ErrInvalidJobStatus.Wrapf("job %d deadline has not passed", jobID)
	}

	if err := k.rateProvider(ctx, provider, false); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLateSubmissionPenalized,
			sdk.NewAttribute(types.AttributeKeyJobID, strconv.FormatUint(jobID, 10)),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyDeadline, job.Deadline.Format(time.RFC3339Nano)),
			sdk.NewAttribute(types.AttributeKeySubmittedAt, sdkCtx.BlockTime().Format(time.RFC3339Nano)),
		),
	)
	k.metrics.LatePenalties.Inc()
	return nil
}

// LateSubmissionHook schedules PenalizeLateSubmission after a provider's
// submission failed with ErrDeadlinePassed, when params enable it.
func LateSubmissionHook(k *Keeper) txn.FailureHook {
	return func(msg txn.Msg, err error) (txn.FollowUp, bool) {
		if !errors.Is(err, types.ErrDeadlinePassed) {
			return txn.FollowUp{}, false
		}

		var jobID uint64
		switch m := msg.(type) {
		case *types.MsgSubmitProofAndClaim:
			jobID = m.JobID
		case *types.MsgSubmitResult:
			jobID = m.JobID
		default:
			return txn.FollowUp{}, false
		}

		provider := msg.GetSigner()
		return txn.FollowUp{
			Operation: types.ModuleName + "/penalize_late_submission",
			Caller:    provider,
			Run: func(c txn.Context) error {
				params, err := k.GetParams(c)
				if err != nil {
					return err
				}
				if !params.PersistLatePenalty {
					return nil
				}
				return k.PenalizeLateSubmission(c, provider, jobID)
			},
		}, true
	}
}
