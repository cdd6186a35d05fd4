package keeper

import (
	"context"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// RegisterInvariants registers all compute module invariants
func RegisterInvariants(ir txn.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "escrow-balance",
		EscrowBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "escrow-conservation",
		EscrowConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "job-records",
		JobRecordsInvariant(k))
}

// AllInvariants runs all invariants of the compute module
func AllInvariants(k *Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		res, stop := EscrowBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = EscrowConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return JobRecordsInvariant(k)(ctx)
	}
}

// EscrowBalanceInvariant checks that the module account holds exactly the
// escrow of every Created, Accepted or ResultSubmitted job, per denom.
func EscrowBalanceInvariant(k *Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-balance", err.Error()), true
		}

		held := map[string]math.Int{params.PaymentDenom: math.ZeroInt()}
		err = k.IterateJobs(ctx, func(job types.Job) bool {
			if job.Status.IsTerminal() {
				return false
			}
			if _, ok := held[job.Denom]; !ok {
				held[job.Denom] = math.ZeroInt()
			}
			held[job.Denom] = held[job.Denom].Add(job.EscrowedAmount)
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-balance",
				fmt.Sprintf("error iterating jobs: %v", err)), true
		}

		denoms := make([]string, 0, len(held))
		for denom := range held {
			denoms = append(denoms, denom)
		}
		sort.Strings(denoms)

		var (
			msg    string
			broken bool
		)
		for _, denom := range denoms {
			balance := k.tokenKeeper.BalanceOf(ctx, denom, k.moduleAddr)
			if !balance.Equal(held[denom]) {
				broken = true
				msg += fmt.Sprintf("module balance %s%s, jobs hold %s%s\n", balance, denom, held[denom], denom)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "escrow-balance", msg), broken
	}
}

// EscrowConservationInvariant checks the cumulative escrow stats against
// the stored jobs: every escrowed unit is either still held, paid to a
// provider or refunded to a client.
func EscrowConservationInvariant(k *Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		stats, err := k.GetEscrowStats(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-conservation", err.Error()), true
		}

		held, paid, refunded := math.ZeroInt(), math.ZeroInt(), math.ZeroInt()
		err = k.IterateJobs(ctx, func(job types.Job) bool {
			switch job.Status {
			case types.JobStatusCompleted:
				paid = paid.Add(job.EscrowedAmount)
			case types.JobStatusCancelled:
				refunded = refunded.Add(job.EscrowedAmount)
			default:
				held = held.Add(job.EscrowedAmount)
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-conservation", err.Error()), true
		}

		broken := !stats.TotalPaid.Equal(paid) ||
			!stats.TotalRefunded.Equal(refunded) ||
			!stats.Outstanding().Equal(held)
		return sdk.FormatInvariant(
			types.ModuleName, "escrow-conservation",
			fmt.Sprintf("escrowed %s paid %s/%s refunded %s/%s outstanding %s/%s (stats/jobs)",
				stats.TotalEscrowed, stats.TotalPaid, paid, stats.TotalRefunded, refunded, stats.Outstanding(), held),
		), broken
	}
}

// JobRecordsInvariant checks every stored job is well formed, indexed
// under its status and below the next job id.
func JobRecordsInvariant(k *Keeper) txn.Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)
		store := k.getStore(ctx)
		nextID := k.PeekNextJobID(ctx)

		err := k.IterateJobs(ctx, func(job types.Job) bool {
			if err := job.Validate(); err != nil {
				msg += fmt.Sprintf("job %d: %s\n", job.ID, err)
				broken = true
			}
			if !store.Has(types.GetJobsByStatusKey(job.Status, job.ID)) {
				msg += fmt.Sprintf("job %d missing from %s index\n", job.ID, job.Status)
				broken = true
			}
			if job.ID >= nextID {
				msg += fmt.Sprintf("job %d not below next job id %d\n", job.ID, nextID)
				broken = true
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "job-records", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "job-records", msg), broken
	}
}
