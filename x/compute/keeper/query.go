package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// Jobs returns a page of jobs in id order. A non-nil status restricts
// the page to jobs currently in that status.
func (k *Keeper) Jobs(ctx context.Context, status *types.JobStatus, pageReq *query.PageRequest) ([]types.Job, *query.PageResponse, error) {
	if status == nil {
		store := prefix.NewStore(k.getStore(ctx), types.JobKeyPrefix)

		var jobs []types.Job
		pageRes, err := query.Paginate(store, pageReq, func(key, value []byte) error {
			var job types.Job
			if err := json.Unmarshal(value, &job); err != nil {
				return err
			}
			jobs = append(jobs, job)
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		return jobs, pageRes, nil
	}

	return k.paginateIndex(ctx, types.GetJobsByStatusPrefix(*status), pageReq)
}

// JobsByClient returns a page of the jobs created by client.
func (k *Keeper) JobsByClient(ctx context.Context, client sdk.AccAddress, pageReq *query.PageRequest) ([]types.Job, *query.PageResponse, error) {
	return k.paginateIndex(ctx, types.GetJobsByClientPrefix(client), pageReq)
}

func (k *Keeper) paginateIndex(ctx context.Context, indexPrefix []byte, pageReq *query.PageRequest) ([]types.Job, *query.PageResponse, error) {
	store := prefix.NewStore(k.getStore(ctx), indexPrefix)

	var jobs []types.Job
	pageRes, err := query.Paginate(store, pageReq, func(key, _ []byte) error {
		job, err := k.GetJob(ctx, types.GetJobIDFromBytes(key))
		if err != nil {
			return err
		}
		jobs = append(jobs, *job)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return jobs, pageRes, nil
}
