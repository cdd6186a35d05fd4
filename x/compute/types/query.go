package types

import (
	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryParamsRequest is the request type for the Query/Params method.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response type for the Query/Params method.
type QueryParamsResponse struct {
	Params Params `json:"params"`
	// registered dependency names the params may select
	Verifiers    []string `json:"verifiers"`
	StakeLedgers []string `json:"stake_ledgers"`
}

// QueryJobRequest is the request type for the Query/Job method.
type QueryJobRequest struct {
	JobID uint64 `json:"job_id"`
}

// QueryJobResponse is the response type for the Query/Job method.
type QueryJobResponse struct {
	Job     Job  `json:"job"`
	Expired bool `json:"expired"`
}

// QueryJobsRequest is the request type for the Query/Jobs method. Status
// and Client are optional filters; Client takes precedence.
type QueryJobsRequest struct {
	Status     string             `json:"status,omitempty"`
	Client     string             `json:"client,omitempty"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// QueryJobsResponse is the response type for the Query/Jobs method.
type QueryJobsResponse struct {
	Jobs       []Job               `json:"jobs"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

// QueryEscrowStatsRequest is the request type for the Query/EscrowStats method.
type QueryEscrowStatsRequest struct{}

// QueryEscrowStatsResponse is the response type for the Query/EscrowStats method.
type QueryEscrowStatsResponse struct {
	Stats       EscrowStats `json:"stats"`
	Outstanding string      `json:"outstanding"`
}
