package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// InitGenesis initializes the compute module's state from a genesis state.
// Escrow held by non-terminal jobs must already sit in the module account
// through the token genesis.
func (k *Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return err
	}

	if err := k.SetParams(ctx, data.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, job := range data.Jobs {
		if err := k.setJob(ctx, job, types.JobStatusUnspecified); err != nil {
			return fmt.Errorf("failed to initialize job %d: %w", job.ID, err)
		}
	}

	k.setNextJobID(ctx, data.NextJobID)
	return k.setEscrowStats(ctx, data.EscrowStats)
}

// ExportGenesis returns the compute module's exported genesis.
func (k *Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	jobs := []types.Job{}
	if err := k.IterateJobs(ctx, func(job types.Job) bool {
		jobs = append(jobs, job)
		return false
	}); err != nil {
		return nil, err
	}

	stats, err := k.GetEscrowStats(ctx)
	if err != nil {
		return nil, err
	}

	return &types.GenesisState{
		Params:      params,
		Jobs:        jobs,
		NextJobID:   k.PeekNextJobID(ctx),
		EscrowStats: stats,
	}, nil
}
