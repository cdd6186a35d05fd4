package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/zkmarket/app"
	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
)

// TestEscrowConservationProperties tests that every escrowed unit ends up
// paid, refunded or still held, whatever the order of operations
func TestEscrowConservationProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := keepertest.NewFixture(t)
		client := keepertest.Addr("client")
		providers := []sdk.AccAddress{keepertest.Addr("provider-a"), keepertest.Addr("provider-b")}
		for _, p := range providers {
			f.StakeProvider(p, 1000)
		}

		var jobs []uint64
		minted := math.ZeroInt()
		lastDone := make(map[string]uint64)

		rt.Repeat(map[string]func(*rapid.T){
			"create": func(rt *rapid.T) {
				amount := rapid.Int64Range(1, 1000).Draw(rt, "amount")
				ttl := time.Duration(rapid.IntRange(1, 48).Draw(rt, "ttlHours")) * time.Hour
				jobs = append(jobs, f.CreateJob(client, amount, ttl, testProgram))
				minted = minted.AddRaw(amount)
			},
			"accept": func(rt *rapid.T) {
				if len(jobs) == 0 {
					rt.Skip("no jobs")
				}
				jobID := rapid.SampledFrom(jobs).Draw(rt, "job")
				provider := rapid.SampledFrom(providers).Draw(rt, "provider")
				_, _ = f.Deliver(&types.MsgAcceptJob{Sender: provider.String(), JobID: jobID})
			},
			"submit": func(rt *rapid.T) {
				if len(jobs) == 0 {
					rt.Skip("no jobs")
				}
				jobID := rapid.SampledFrom(jobs).Draw(rt, "job")
				provider := rapid.SampledFrom(providers).Draw(rt, "provider")
				if rapid.Bool().Draw(rt, "validProof") {
					f.Verifier.SetRule(verifier.AcceptAll())
				} else {
					f.Verifier.SetRule(verifier.RejectAll())
				}
				_ = submitProof(f, provider, jobID)
			},
			"cancel": func(rt *rapid.T) {
				if len(jobs) == 0 {
					rt.Skip("no jobs")
				}
				jobID := rapid.SampledFrom(jobs).Draw(rt, "job")
				_, _ = f.Deliver(&types.MsgCancelJob{Sender: client.String(), JobID: jobID})
			},
			"advance": func(rt *rapid.T) {
				f.Clock.Advance(time.Duration(rapid.IntRange(1, 12).Draw(rt, "hours")) * time.Hour)
			},
			"": func(rt *rapid.T) {
				escrowed, paid, refunded, held := math.ZeroInt(), math.ZeroInt(), math.ZeroInt(), math.ZeroInt()
				for _, jobID := range jobs {
					job := f.Job(jobID)
					escrowed = escrowed.Add(job.EscrowedAmount)
					switch job.Status {
					case types.JobStatusCompleted:
						paid = paid.Add(job.EscrowedAmount)
					case types.JobStatusCancelled:
						refunded = refunded.Add(job.EscrowedAmount)
					default:
						held = held.Add(job.EscrowedAmount)
					}
				}

				stats := f.EscrowStats()
				require.True(rt, escrowed.Equal(stats.TotalEscrowed), "escrowed %s, stats %s", escrowed, stats.TotalEscrowed)
				require.True(rt, paid.Equal(stats.TotalPaid), "paid %s, stats %s", paid, stats.TotalPaid)
				require.True(rt, refunded.Equal(stats.TotalRefunded), "refunded %s, stats %s", refunded, stats.TotalRefunded)
				require.True(rt, held.Equal(f.Balance(app.ModuleAddress(types.ModuleName))))

				// no unit is created or destroyed between client, module and providers
				total := f.Balance(client).Add(f.Balance(app.ModuleAddress(types.ModuleName)))
				for _, p := range providers {
					total = total.Add(f.Balance(p))
				}
				require.True(rt, minted.Equal(total), "minted %s, accounted %s", minted, total)

				for _, p := range providers {
					acct := f.Provider(p)
					require.LessOrEqual(rt, acct.SuccessfulJobs, acct.JobsDone)
					require.GreaterOrEqual(rt, acct.JobsDone, lastDone[p.String()])
					lastDone[p.String()] = acct.JobsDone
				}

				broken, err := f.App.CheckInvariants(f.Ctx)
				require.NoError(rt, err)
				require.Empty(rt, broken)
			},
		})
	})
}
