package cli

import (
	sdkclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/compute/keeper"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// GetQueryCmd returns the cli query commands for the compute module
func GetQueryCmd() *cobra.Command {
	computeQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the compute module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	computeQueryCmd.AddCommand(
		GetCmdQueryParams(),
		GetCmdQueryJob(),
		GetCmdQueryJobs(),
		GetCmdQueryEscrowStats(),
	)

	return computeQueryCmd
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Query the current compute module parameters",
		Long: `Query the compute parameters together with the registered verifier
and stake ledger names they may select.

Example:
  $ marketd query compute params`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(qs keeper.QueryServer, ctx txn.Context) (any, error) {
				return qs.Params(ctx, &types.QueryParamsRequest{})
			})
		},
	}
}

// GetCmdQueryJob returns the command to query a job by ID
func GetCmdQueryJob() *cobra.Command {
	return &cobra.Command{
		Use:   "job [job-id]",
		Short: "Query a job by ID",
		Long: `Query a job and whether its deadline has passed.

Example:
  $ marketd query compute job 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(qs keeper.QueryServer, ctx txn.Context) (any, error) {
				return qs.Job(ctx, &types.QueryJobRequest{JobID: jobID})
			})
		},
	}
}

// GetCmdQueryJobs returns the command to list jobs
func GetCmdQueryJobs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs, optionally filtered by status or client",
		Long: `List jobs in ID order.

Example:
  $ marketd query compute jobs --status accepted --limit 20
  $ marketd query compute jobs --client cosmos1...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString(FlagStatus)
			clientAddr, _ := cmd.Flags().GetString(FlagClient)
			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			req := &types.QueryJobsRequest{
				Status:     status,
				Client:     clientAddr,
				Pagination: pageReq,
			}
			return runQuery(cmd, func(qs keeper.QueryServer, ctx txn.Context) (any, error) {
				return qs.Jobs(ctx, req)
			})
		},
	}

	cmd.Flags().String(FlagStatus, "", "filter by status (created, accepted, result_submitted, completed, cancelled)")
	cmd.Flags().String(FlagClient, "", "filter by client address")
	client.AddPaginationFlags(cmd, "jobs")
	return cmd
}

// GetCmdQueryEscrowStats returns the command to query escrow accounting
func GetCmdQueryEscrowStats() *cobra.Command {
	return &cobra.Command{
		Use:   "escrow-stats",
		Short: "Query total escrowed, paid and refunded amounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(qs keeper.QueryServer, ctx txn.Context) (any, error) {
				return qs.EscrowStats(ctx, &types.QueryEscrowStatsRequest{})
			})
		},
	}
}

func runQuery(cmd *cobra.Command, fn func(keeper.QueryServer, txn.Context) (any, error)) error {
	clientCtx, err := client.GetClientContext(cmd)
	if err != nil {
		return err
	}
	defer clientCtx.Close()

	qs := keeper.NewQueryServerImpl(clientCtx.App.ComputeKeeper)
	return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
		return fn(qs, ctx)
	})
}
