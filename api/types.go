package api

import (
	"cosmossdk.io/math"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// PaginationParams represents pagination query parameters
type PaginationParams struct {
	Offset uint64 `form:"offset" json:"offset"`
	Limit  uint64 `form:"limit" json:"limit"`
}

// ProviderResponse is a provider record with its derived success rate.
type ProviderResponse struct {
	collateraltypes.ProviderAccount
	SuccessRate string `json:"success_rate"`
}

// ProvidersResponse is a page of provider records.
type ProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Total     uint64             `json:"total"`
	NextKey   []byte             `json:"next_key,omitempty"`
}

// BalanceResponse is an account balance in one denom.
type BalanceResponse struct {
	Address string   `json:"address"`
	Denom   string   `json:"denom"`
	Amount  math.Int `json:"amount"`
}

// RolesResponse lists every role grant.
type RolesResponse struct {
	Grants []accesstypes.Grant `json:"grants"`
}

// EventsResponse is a page of the event log.
type EventsResponse struct {
	Events  []txn.EventRecord `json:"events"`
	LastSeq uint64            `json:"last_seq"`
}

// CollateralParamsResponse is the collateral module configuration.
type CollateralParamsResponse struct {
	Params        collateraltypes.Params `json:"params"`
	TotalStaked   math.Int               `json:"total_staked"`
	LockedSlashed math.Int               `json:"locked_slashed"`
}
