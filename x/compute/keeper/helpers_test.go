package keeper_test

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

const resultRef = "ipfs://bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku"

var (
	testProgram = types.Digest{0x0c, 0x1e, 0x77}
	testOutput  = types.Digest{0xa0, 0x42}
)

// acceptedJob creates a job of amount due in ttl and has a provider with
// stake 1000 accept it.
func acceptedJob(t *testing.T, f *keepertest.Fixture, amount int64, ttl time.Duration) (uint64, sdk.AccAddress, sdk.AccAddress) {
	t.Helper()
	client := keepertest.Addr("client")
	provider := keepertest.Addr("provider")

	f.StakeProvider(provider, 1000)
	jobID := f.CreateJob(client, amount, ttl, testProgram)
	f.MustDeliver(&types.MsgAcceptJob{Sender: provider.String(), JobID: jobID})
	return jobID, client, provider
}

func submitProof(f *keepertest.Fixture, provider sdk.AccAddress, jobID uint64) error {
	_, err := f.Deliver(&types.MsgSubmitProofAndClaim{
		Sender:     provider.String(),
		JobID:      jobID,
		Proof:      []byte("groth16-proof"),
		OutputHash: testOutput,
		ResultRef:  resultRef,
	})
	return err
}

func jobsPage(f *keepertest.Fixture, status *types.JobStatus, pageReq *query.PageRequest) ([]types.Job, *query.PageResponse, error) {
	var (
		jobs    []types.Job
		pageRes *query.PageResponse
	)
	err := f.App.Query(f.Ctx, func(c txn.Context) error {
		var err error
		jobs, pageRes, err = f.App.ComputeKeeper.Jobs(c, status, pageReq)
		return err
	})
	return jobs, pageRes, err
}
