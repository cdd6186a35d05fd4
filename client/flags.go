package client

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagOffset     = "offset"
	FlagLimit      = "limit"
	FlagCountTotal = "count-total"

	// DefaultLimit is the page size used when --limit is not given.
	DefaultLimit = 100
)

// AddPaginationFlags registers the list flags read by ReadPageRequest.
func AddPaginationFlags(cmd *cobra.Command, what string) {
	cmd.Flags().Uint64(FlagOffset, 0, fmt.Sprintf("number of %s to skip", what))
	cmd.Flags().Uint64(FlagLimit, DefaultLimit, fmt.Sprintf("maximum number of %s to return", what))
	cmd.Flags().Bool(FlagCountTotal, true, fmt.Sprintf("count the total number of %s", what))
}

// ReadPageRequest builds a page request from the pagination flags.
func ReadPageRequest(flagSet *pflag.FlagSet) (*query.PageRequest, error) {
	offset, err := flagSet.GetUint64(FlagOffset)
	if err != nil {
		return nil, err
	}
	limit, err := flagSet.GetUint64(FlagLimit)
	if err != nil {
		return nil, err
	}
	countTotal, err := flagSet.GetBool(FlagCountTotal)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, fmt.Errorf("--%s must be positive", FlagLimit)
	}
	return &query.PageRequest{Offset: offset, Limit: limit, CountTotal: countTotal}, nil
}
