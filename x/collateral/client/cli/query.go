package cli

import (
	"fmt"

	sdkclient "github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/collateral/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// ProviderInfo is a provider record with its derived success rate.
type ProviderInfo struct {
	types.ProviderAccount
	SuccessRate string `json:"success_rate"`
}

// GetQueryCmd returns the cli query commands for the collateral module
func GetQueryCmd() *cobra.Command {
	collateralQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the collateral module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	collateralQueryCmd.AddCommand(
		GetCmdQueryProvider(),
		GetCmdQueryProviders(),
		GetCmdQueryParams(),
	)

	return collateralQueryCmd
}

// GetCmdQueryProvider returns the command to query a provider by address
func GetCmdQueryProvider() *cobra.Command {
	return &cobra.Command{
		Use:   "provider [address]",
		Short: "Query a provider's stake and reputation",
		Long: `Query a provider record. Providers that never staked report a zero
record with exists=false.

Example:
  $ marketd query collateral provider cosmos1...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid provider address: %w", err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				p, err := clientCtx.App.CollateralKeeper.GetInfo(ctx, addr)
				if err != nil {
					return nil, err
				}
				return ProviderInfo{ProviderAccount: p, SuccessRate: p.SuccessRate().String()}, nil
			})
		},
	}
}

// GetCmdQueryProviders returns the command to list providers
func GetCmdQueryProviders() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List provider records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				providers, pageRes, err := clientCtx.App.CollateralKeeper.Providers(ctx, pageReq)
				if err != nil {
					return nil, err
				}
				out := make([]ProviderInfo, 0, len(providers))
				for _, p := range providers {
					out = append(out, ProviderInfo{ProviderAccount: p, SuccessRate: p.SuccessRate().String()})
				}
				return map[string]any{"providers": out, "pagination": pageRes}, nil
			})
		},
	}

	client.AddPaginationFlags(cmd, "providers")
	return cmd
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Query collateral parameters and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				k := clientCtx.App.CollateralKeeper
				params, err := k.GetParams(ctx)
				if err != nil {
					return nil, err
				}
				total, err := k.TotalStaked(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"params":         params,
					"total_staked":   total,
					"locked_slashed": k.GetLockedSlashed(ctx),
				}, nil
			})
		},
	}
}
