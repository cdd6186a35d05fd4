package cli

import (
	"fmt"

	sdkclient "github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/app"
	"github.com/paw-chain/zkmarket/client"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/token/types"
)

// GetTxCmd returns the transaction commands for the token module
func GetTxCmd() *cobra.Command {
	tokenTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Token transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	tokenTxCmd.AddCommand(
		CmdTransfer(),
		CmdApprove(),
		CmdMint(),
	)

	return tokenTxCmd
}

// CmdTransfer returns a CLI command handler for sending tokens
func CmdTransfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [recipient] [coin]",
		Short: "Send tokens to an account",
		Long: `Send [coin] to [recipient]. Module accounts cannot receive transfers.

Example:
  $ marketd tx token transfer cosmos1... 1000upaw --from cosmos1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", args[1], err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgTransfer{
				Sender:    clientCtx.From.String(),
				Recipient: args[0],
				Amount:    coin,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdApprove returns a CLI command handler for setting an allowance
func CmdApprove() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [spender] [coin]",
		Short: "Allow a spender to pull up to [coin] from the sender",
		Long: `Set the allowance of [spender] over the sender's balance. The spender
may be an address or one of the module names "collateral" and "compute".

Example:
  $ marketd tx token approve compute 1000upaw --from cosmos1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spender, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", args[1], err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgApprove{
				Sender:  clientCtx.From.String(),
				Spender: spender.String(),
				Amount:  coin,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdMint returns a CLI command handler for minting tokens
func CmdMint() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [recipient] [coin]",
		Short: "Mint tokens to an account (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", args[1], err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgMint{
				Sender:    clientCtx.From.String(),
				Recipient: args[0],
				Amount:    coin,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// resolveAccount accepts a bech32 address or a module name.
func resolveAccount(s string) (sdk.AccAddress, error) {
	switch s {
	case collateraltypes.ModuleName, computetypes.ModuleName:
		return app.ModuleAddress(s), nil
	}
	addr, err := sdk.AccAddressFromBech32(s)
	if err != nil {
		return nil, fmt.Errorf("invalid account %q: %w", s, err)
	}
	return addr, nil
}
