package cli

import (
	"fmt"

	sdkclient "github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/shared/txn"
	"github.com/paw-chain/zkmarket/x/token/types"
)

// GetQueryCmd returns the cli query commands for the token module
func GetQueryCmd() *cobra.Command {
	tokenQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the token module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	tokenQueryCmd.AddCommand(
		GetCmdQueryBalances(),
		GetCmdQueryAllowance(),
		GetCmdQuerySupply(),
	)

	return tokenQueryCmd
}

// GetCmdQueryBalances returns the command to query an account's balances
func GetCmdQueryBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "balances [address]",
		Short: "Query every balance held by an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				return map[string]any{
					"address":  addr.String(),
					"balances": clientCtx.App.TokenKeeper.GetAllBalances(ctx, addr),
				}, nil
			})
		},
	}
}

// GetCmdQueryAllowance returns the command to query a spender's allowance
func GetCmdQueryAllowance() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance [owner] [spender] [denom]",
		Short: "Query how much a spender may pull from an owner",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			spender, err := resolveAccount(args[1])
			if err != nil {
				return err
			}
			if err := sdk.ValidateDenom(args[2]); err != nil {
				return fmt.Errorf("invalid denom: %w", err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				return sdk.NewCoin(args[2], clientCtx.App.TokenKeeper.Allowance(ctx, args[2], owner, spender)), nil
			})
		},
	}
}

// GetCmdQuerySupply returns the command to query a denom's total supply
func GetCmdQuerySupply() *cobra.Command {
	return &cobra.Command{
		Use:   "supply [denom]",
		Short: "Query the total minted supply of a denom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sdk.ValidateDenom(args[0]); err != nil {
				return fmt.Errorf("invalid denom: %w", err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				return sdk.NewCoin(args[0], clientCtx.App.TokenKeeper.TotalSupply(ctx, args[0])), nil
			})
		},
	}
}
