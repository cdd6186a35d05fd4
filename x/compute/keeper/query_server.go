package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// QueryServer answers typed read requests. Callers run it inside a
// read-only executor query.
type QueryServer struct {
	*Keeper
}

// NewQueryServerImpl returns the compute query server.
func NewQueryServerImpl(keeper *Keeper) QueryServer {
	return QueryServer{Keeper: keeper}
}

// sanitizePagination enforces default and max limits to prevent unbounded queries.
func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit, CountTotal: true}
	}
	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}
	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}
	return p
}

// Params returns the module parameters and the registered dependency names.
func (qs QueryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{
		Params:       params,
		Verifiers:    qs.RegisteredVerifiers(),
		StakeLedgers: qs.RegisteredStakeLedgers(),
	}, nil
}

// Job returns a single job and whether its deadline has passed.
func (qs QueryServer) Job(ctx context.Context, req *types.QueryJobRequest) (*types.QueryJobResponse, error) {
	if req == nil || req.JobID == 0 {
		return nil, types.ErrInvalidJobID.Wrap("job id must be positive")
	}
	job, err := qs.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	now := txn.UnwrapContext(ctx).BlockTime()
	return &types.QueryJobResponse{
		Job:     *job,
		Expired: !job.Status.IsTerminal() && job.Expired(now),
	}, nil
}

// Jobs returns a page of jobs, optionally filtered by client or status.
func (qs QueryServer) Jobs(ctx context.Context, req *types.QueryJobsRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}
	pageReq := sanitizePagination(req.Pagination)

	var (
		jobs    []types.Job
		pageRes *query.PageResponse
		err     error
	)
	switch {
	case req.Client != "":
		client, aerr := sdk.AccAddressFromBech32(req.Client)
		if aerr != nil {
			return nil, types.ErrInvalidAddress.Wrapf("client: %s", aerr)
		}
		jobs, pageRes, err = qs.JobsByClient(ctx, client, pageReq)
	case req.Status != "":
		status, serr := types.ParseJobStatus(req.Status)
		if serr != nil {
			return nil, serr
		}
		jobs, pageRes, err = qs.Keeper.Jobs(ctx, &status, pageReq)
	default:
		jobs, pageRes, err = qs.Keeper.Jobs(ctx, nil, pageReq)
	}
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return &types.QueryJobsResponse{Jobs: jobs, Pagination: pageRes}, nil
}

// EscrowStats returns cumulative escrow accounting.
func (qs QueryServer) EscrowStats(ctx context.Context, req *types.QueryEscrowStatsRequest) (*types.QueryEscrowStatsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}
	stats, err := qs.GetEscrowStats(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryEscrowStatsResponse{
		Stats:       stats,
		Outstanding: stats.Outstanding().String(),
	}, nil
}
