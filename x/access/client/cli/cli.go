package cli

import (
	"fmt"

	sdkclient "github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// GetTxCmd returns the transaction commands for the access module
func GetTxCmd() *cobra.Command {
	accessTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Role grant subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	accessTxCmd.AddCommand(
		CmdGrantRole(),
		CmdRevokeRole(),
	)

	return accessTxCmd
}

// GetQueryCmd returns the cli query commands for the access module
func GetQueryCmd() *cobra.Command {
	accessQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the access module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	accessQueryCmd.AddCommand(
		GetCmdQueryRoles(),
		GetCmdQueryHasRole(),
	)

	return accessQueryCmd
}

// CmdGrantRole returns a CLI command handler for granting a role
func CmdGrantRole() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant [admin|slasher|rater] [account]",
		Short: "Grant a role to an account (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := types.ParseRole(args[0])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgGrantRole{
				Sender:  clientCtx.From.String(),
				Role:    role,
				Account: args[1],
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdRevokeRole returns a CLI command handler for revoking a role
func CmdRevokeRole() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke [admin|slasher|rater] [account]",
		Short: "Revoke a role from an account (admin)",
		Long: `Revoke a role. The last remaining admin cannot be revoked.

Example:
  $ marketd tx access revoke slasher cosmos1... --from cosmos1admin...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := types.ParseRole(args[0])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgRevokeRole{
				Sender:  clientCtx.From.String(),
				Role:    role,
				Account: args[1],
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// GetCmdQueryRoles returns the command to list every role grant
func GetCmdQueryRoles() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List every role grant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				return map[string]any{"grants": clientCtx.App.AccessKeeper.Grants(ctx)}, nil
			})
		},
	}
}

// GetCmdQueryHasRole returns the command to check a single grant
func GetCmdQueryHasRole() *cobra.Command {
	return &cobra.Command{
		Use:   "has-role [role] [account]",
		Short: "Check whether an account holds a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := types.ParseRole(args[0])
			if err != nil {
				return err
			}
			account, err := sdk.AccAddressFromBech32(args[1])
			if err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.Query(cmd.Context(), func(ctx txn.Context) (any, error) {
				return map[string]any{
					"role":     role,
					"account":  account.String(),
					"has_role": clientCtx.App.AccessKeeper.HasRole(ctx, role, account),
				}, nil
			})
		},
	}
}
