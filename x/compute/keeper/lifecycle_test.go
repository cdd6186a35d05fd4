package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/app"
	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	"github.com/paw-chain/zkmarket/x/compute/types"
)

func eventAttr(events sdk.Events, typ, key string) (string, bool) {
	for _, ev := range events {
		if ev.Type != typ {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// TestCreateJob tests escrow and registration of a new job
func TestCreateJob(t *testing.T) {
	f := keepertest.NewFixture(t)
	client := keepertest.Addr("client")

	jobID := f.CreateJob(client, 100, 24*time.Hour, testProgram)
	require.Equal(t, uint64(1), jobID)

	job := f.Job(jobID)
	require.Equal(t, types.JobStatusCreated, job.Status)
	require.Equal(t, client.String(), job.Client)
	require.Empty(t, job.Provider)
	require.Equal(t, math.NewInt(100), job.EscrowedAmount)
	require.Equal(t, keepertest.Denom, job.Denom)
	require.Equal(t, keepertest.GenesisTime.Add(24*time.Hour), job.Deadline)
	require.Equal(t, types.LifecycleSinglePhase, job.Lifecycle)
	require.Equal(t, testProgram, job.ProgramID)

	require.True(t, f.Balance(client).IsZero())
	require.Equal(t, math.NewInt(100), f.Balance(app.ModuleAddress(types.ModuleName)))
	require.Equal(t, math.NewInt(100), f.EscrowStats().TotalEscrowed)

	second := f.CreateJob(client, 5, time.Hour, testProgram)
	require.Equal(t, uint64(2), second)
	f.RequireInvariants()
}

// TestCreateJob_Rejections tests that invalid jobs leave no state behind
func TestCreateJob_Rejections(t *testing.T) {
	f := keepertest.NewFixture(t)
	client := keepertest.Addr("client")
	f.Fund(client, 100)
	now := f.Clock.Now()

	tests := []struct {
		name string
		msg  types.MsgCreateJob
		err  error
	}{
		{
			name: "zero amount",
			msg:  types.MsgCreateJob{Amount: math.ZeroInt(), Deadline: now.Add(time.Hour), ProgramID: testProgram},
			err:  types.ErrEscrowAmountZero,
		},
		{
			name: "deadline equal to now",
			msg:  types.MsgCreateJob{Amount: math.NewInt(10), Deadline: now, ProgramID: testProgram},
			err:  types.ErrDeadlineMustBeInFuture,
		},
		{
			name: "deadline in the past",
			msg:  types.MsgCreateJob{Amount: math.NewInt(10), Deadline: now.Add(-time.Second), ProgramID: testProgram},
			err:  types.ErrDeadlineMustBeInFuture,
		},
		{
			name: "single phase without program",
			msg:  types.MsgCreateJob{Amount: math.NewInt(10), Deadline: now.Add(time.Hour)},
			err:  types.ErrMissingProgramID,
		},
		{
			name: "amount above allowance",
			msg:  types.MsgCreateJob{Amount: math.NewInt(101), Deadline: now.Add(time.Hour), ProgramID: testProgram},
			err:  types.ErrTokenTransferFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.msg
			msg.Sender = client.String()
			msg.DataRef = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

			_, err := f.Deliver(&msg)
			require.ErrorIs(t, err, tc.err)
		})
	}

	require.Equal(t, math.NewInt(100), f.Balance(client))
	require.True(t, f.EscrowStats().TotalEscrowed.IsZero())

	jobs, _, err := jobsPage(f, nil, nil)
	require.NoError(t, err)
	require.Empty(t, jobs)
}

// TestAcceptJob_DeadlineBoundary tests that the deadline instant itself counts as expired
func TestAcceptJob_DeadlineBoundary(t *testing.T) {
	f := keepertest.NewFixture(t)
	client := keepertest.Addr("client")
	provider := keepertest.Addr("provider")
	f.StakeProvider(provider, 1000)

	onTime := f.CreateJob(client, 100, 24*time.Hour, testProgram)
	late := f.CreateJob(client, 100, 24*time.Hour, testProgram)
	deadline := f.Job(late).Deadline

	f.Clock.Set(deadline)
	_, err := f.Deliver(&types.MsgAcceptJob{Sender: provider.String(), JobID: late})
	require.ErrorIs(t, err, types.ErrDeadlinePassed)
	require.Equal(t, types.JobStatusCreated, f.Job(late).Status)

	f.Clock.Set(deadline.Add(-time.Nanosecond))
	f.MustDeliver(&types.MsgAcceptJob{Sender: provider.String(), JobID: onTime})
	require.Equal(t, types.JobStatusAccepted, f.Job(onTime).Status)
	require.Equal(t, provider.String(), f.Job(onTime).Provider)
}

// TestAcceptJob_SingleBinding tests that the first acceptance wins
func TestAcceptJob_SingleBinding(t *testing.T) {
	f := keepertest.NewFixture(t)
	jobID, _, provider := acceptedJob(t, f, 100, time.Hour)

	rival := keepertest.Addr("rival")
	f.StakeProvider(rival, 1000)

	for _, p := range []sdk.AccAddress{rival, provider} {
		_, err := f.Deliver(&types.MsgAcceptJob{Sender: p.String(), JobID: jobID})
		require.ErrorIs(t, err, types.ErrInvalidJobStatus)

		var statusErr *types.InvalidStatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, types.JobStatusAccepted, statusErr.Observed)
		require.Equal(t, []types.JobStatus{types.JobStatusCreated}, statusErr.Required)
	}
	require.Equal(t, provider.String(), f.Job(jobID).Provider)
}

// TestAcceptJob_StakeGating tests the minimum stake check at acceptance
func TestAcceptJob_StakeGating(t *testing.T) {
	f := keepertest.NewFixture(t)
	client := keepertest.Addr("client")
	jobID := f.CreateJob(client, 100, time.Hour, testProgram)

	unknown := keepertest.Addr("unknown")
	_, err := f.Deliver(&types.MsgAcceptJob{Sender: unknown.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrProviderNotRegisteredOrInsufficientStake)

	small := keepertest.Addr("small")
	f.StakeProvider(small, 499)
	_, err = f.Deliver(&types.MsgAcceptJob{Sender: small.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrProviderNotRegisteredOrInsufficientStake)

	exact := keepertest.Addr("exact")
	f.StakeProvider(exact, 500)
	f.MustDeliver(&types.MsgAcceptJob{Sender: exact.String(), JobID: jobID})

	// raising the minimum does not unbind the accepted job
	f.MustDeliver(&types.MsgSetMinProviderStake{Sender: f.Admin.String(), Amount: math.NewInt(5000)})
	require.Equal(t, exact.String(), f.Job(jobID).Provider)
	require.NoError(t, submitProof(f, exact, jobID))
	require.Equal(t, types.JobStatusCompleted, f.Job(jobID).Status)

	next := f.CreateJob(client, 100, time.Hour, testProgram)
	_, err = f.Deliver(&types.MsgAcceptJob{Sender: exact.String(), JobID: next})
	require.ErrorIs(t, err, types.ErrProviderNotRegisteredOrInsufficientStake)
}

// TestAcceptJob_NotFound tests acceptance of an unknown job
func TestAcceptJob_NotFound(t *testing.T) {
	f := keepertest.NewFixture(t)
	provider := keepertest.Addr("provider")
	f.StakeProvider(provider, 1000)

	_, err := f.Deliver(&types.MsgAcceptJob{Sender: provider.String(), JobID: 42})
	require.ErrorIs(t, err, types.ErrJobNotFound)
}

// TestCancelJob_Created tests a full refund of a job nobody accepted
func TestCancelJob_Created(t *testing.T) {
	f := keepertest.NewFixture(t)
	client := keepertest.Addr("client")
	jobID := f.CreateJob(client, 100, 24*time.Hour, testProgram)

	_, err := f.Deliver(&types.MsgCancelJob{Sender: keepertest.Addr("stranger").String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrOnlyClient)

	res := f.MustDeliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	require.Equal(t, math.NewInt(100), res.Response.(*types.MsgCancelJobResponse).Refunded)
	reason, ok := eventAttr(res.Events, types.EventTypeJobCancelled, types.AttributeKeyReason)
	require.True(t, ok)
	require.Equal(t, "created", reason)

	job := f.Job(jobID)
	require.Equal(t, types.JobStatusCancelled, job.Status)
	require.Empty(t, job.Provider)
	require.NotNil(t, job.SettledAt)
	require.Equal(t, math.NewInt(100), f.Balance(client))
	require.True(t, f.Balance(app.ModuleAddress(types.ModuleName)).IsZero())

	_, err = f.Deliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrInvalidJobStatus)
	require.Equal(t, math.NewInt(100), f.Balance(client))
	f.RequireInvariants()
}

// TestCancelJob_Accepted tests that an accepted job is refundable only once abandoned
func TestCancelJob_Accepted(t *testing.T) {
	f := keepertest.NewFixture(t)
	jobID, client, provider := acceptedJob(t, f, 100, time.Hour)

	_, err := f.Deliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrInvalidJobStatus)
	require.Equal(t, types.JobStatusAccepted, f.Job(jobID).Status)

	f.Clock.Advance(time.Hour)
	res := f.MustDeliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	reason, _ := eventAttr(res.Events, types.EventTypeJobCancelled, types.AttributeKeyReason)
	require.Equal(t, "abandoned", reason)

	job := f.Job(jobID)
	require.Equal(t, types.JobStatusCancelled, job.Status)
	require.Equal(t, provider.String(), job.Provider)
	require.Equal(t, math.NewInt(100), f.Balance(client))
	f.RequireInvariants()
}

// TestCancelJob_AcceptedTwoPhase tests that an abandoned two-phase job is refundable
func TestCancelJob_AcceptedTwoPhase(t *testing.T) {
	f := keepertest.NewFixture(t, keepertest.WithComputeParams(func(p *types.Params) {
		p.Lifecycle = types.LifecycleTwoPhase
	}))
	jobID, client, provider := acceptedJob(t, f, 100, time.Hour)
	require.Equal(t, types.LifecycleTwoPhase, f.Job(jobID).Lifecycle)

	_, err := f.Deliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrInvalidJobStatus)
	var statusErr *types.InvalidStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, types.JobStatusAccepted, statusErr.Observed)
	require.Equal(t, []types.JobStatus{types.JobStatusCreated, types.JobStatusAccepted}, statusErr.Required)

	f.Clock.Advance(2 * time.Hour)
	_, err = f.Deliver(&types.MsgSubmitResult{Sender: provider.String(), JobID: jobID, ResultRef: resultRef})
	require.ErrorIs(t, err, types.ErrDeadlinePassed)

	res := f.MustDeliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
	require.Equal(t, math.NewInt(100), res.Response.(*types.MsgCancelJobResponse).Refunded)
	reason, _ := eventAttr(res.Events, types.EventTypeJobCancelled, types.AttributeKeyReason)
	require.Equal(t, "abandoned", reason)

	require.Equal(t, types.JobStatusCancelled, f.Job(jobID).Status)
	require.Equal(t, math.NewInt(100), f.Balance(client))
	require.True(t, f.Balance(app.ModuleAddress(types.ModuleName)).IsZero())
	f.RequireInvariants()
}

// TestTwoPhaseLifecycle tests submit-result followed by a client claim
func TestTwoPhaseLifecycle(t *testing.T) {
	f := keepertest.NewFixture(t, keepertest.WithComputeParams(func(p *types.Params) {
		p.Lifecycle = types.LifecycleTwoPhase
	}))
	jobID, client, provider := acceptedJob(t, f, 250, time.Hour)
	require.Equal(t, types.LifecycleTwoPhase, f.Job(jobID).Lifecycle)

	_, err := f.Deliver(&types.MsgClaimAndPay{Sender: client.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrInvalidJobStatus)

	_, err = f.Deliver(&types.MsgSubmitResult{Sender: client.String(), JobID: jobID, ResultRef: resultRef})
	require.ErrorIs(t, err, types.ErrOnlyAssignedProviderCanSubmit)

	f.MustDeliver(&types.MsgSubmitResult{Sender: provider.String(), JobID: jobID, ResultRef: resultRef})
	job := f.Job(jobID)
	require.Equal(t, types.JobStatusResultSubmitted, job.Status)
	require.Equal(t, resultRef, job.ResultRef)

	// the client may claim after the deadline; only submission is time bound
	f.Clock.Advance(2 * time.Hour)
	_, err = f.Deliver(&types.MsgClaimAndPay{Sender: provider.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrOnlyClient)

	res := f.MustDeliver(&types.MsgClaimAndPay{Sender: client.String(), JobID: jobID})
	require.Equal(t, math.NewInt(250), res.Response.(*types.MsgClaimAndPayResponse).Paid)

	require.Equal(t, types.JobStatusCompleted, f.Job(jobID).Status)
	require.Equal(t, math.NewInt(250), f.Balance(provider))
	acct := f.Provider(provider)
	require.Equal(t, uint64(1), acct.JobsDone)
	require.Equal(t, uint64(1), acct.SuccessfulJobs)
	require.Zero(t, f.Verifier.Calls())
	f.RequireInvariants()
}

// TestTwoPhaseLifecycle_ProofFinalizes tests settling a submitted result by proof
func TestTwoPhaseLifecycle_ProofFinalizes(t *testing.T) {
	f := keepertest.NewFixture(t, keepertest.WithComputeParams(func(p *types.Params) {
		p.Lifecycle = types.LifecycleTwoPhase
	}))
	jobID, _, provider := acceptedJob(t, f, 100, time.Hour)
	f.MustDeliver(&types.MsgSubmitResult{Sender: provider.String(), JobID: jobID, ResultRef: resultRef})

	f.Clock.Advance(3 * time.Hour)
	require.NoError(t, submitProof(f, provider, jobID))
	require.Equal(t, types.JobStatusCompleted, f.Job(jobID).Status)
	require.Equal(t, testOutput, f.Job(jobID).OutputHash)
	require.Equal(t, 1, f.Verifier.Calls())
}

// TestTwoPhaseLifecycle_ProofReusesResultRef tests that a proof without a ref keeps the submitted one
func TestTwoPhaseLifecycle_ProofReusesResultRef(t *testing.T) {
	f := keepertest.NewFixture(t, keepertest.WithComputeParams(func(p *types.Params) {
		p.Lifecycle = types.LifecycleTwoPhase
	}))
	jobID, _, provider := acceptedJob(t, f, 100, time.Hour)
	f.MustDeliver(&types.MsgSubmitResult{Sender: provider.String(), JobID: jobID, ResultRef: resultRef})

	f.MustDeliver(&types.MsgSubmitProofAndClaim{
		Sender:     provider.String(),
		JobID:      jobID,
		Proof:      []byte("groth16-proof"),
		OutputHash: testOutput,
	})
	job := f.Job(jobID)
	require.Equal(t, types.JobStatusCompleted, job.Status)
	require.Equal(t, resultRef, job.ResultRef)
	require.Equal(t, math.NewInt(100), f.Balance(provider))
	f.RequireInvariants()
}

// TestLifecycleMismatch tests that each lifecycle only accepts its own operations
func TestLifecycleMismatch(t *testing.T) {
	f := keepertest.NewFixture(t)
	jobID, client, provider := acceptedJob(t, f, 100, time.Hour)

	_, err := f.Deliver(&types.MsgSubmitResult{Sender: provider.String(), JobID: jobID, ResultRef: resultRef})
	require.ErrorIs(t, err, types.ErrLifecycleMismatch)

	_, err = f.Deliver(&types.MsgClaimAndPay{Sender: client.String(), JobID: jobID})
	require.ErrorIs(t, err, types.ErrLifecycleMismatch)

	// switching the lifecycle only affects jobs created afterwards
	f.MustDeliver(&types.MsgSetLifecycle{Sender: f.Admin.String(), Lifecycle: types.LifecycleTwoPhase})
	require.Equal(t, types.LifecycleSinglePhase, f.Job(jobID).Lifecycle)

	next := f.CreateJob(client, 10, time.Hour, types.Digest{})
	require.Equal(t, types.LifecycleTwoPhase, f.Job(next).Lifecycle)
}
