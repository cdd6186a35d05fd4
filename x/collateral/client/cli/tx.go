package cli

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdkclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/collateral/types"
)

// GetTxCmd returns the transaction commands for the collateral module
func GetTxCmd() *cobra.Command {
	collateralTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Collateral transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	collateralTxCmd.AddCommand(
		CmdStake(),
		CmdWithdraw(),
		CmdSlash(),
		CmdRate(),
		CmdSetSlashRecipient(),
	)

	return collateralTxCmd
}

// CmdStake returns a CLI command handler for depositing stake
func CmdStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [amount]",
		Short: "Deposit stake as a provider",
		Long: `Deposit [amount] of the stake denom. In token mode the collateral
module account must be approved for at least [amount] first.

Example:
  $ marketd tx collateral stake 1000 --from cosmos1...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgStake{
				Sender: clientCtx.From.String(),
				Amount: amount,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdWithdraw returns a CLI command handler for withdrawing stake
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw part of the sender's stake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgWithdraw{
				Sender: clientCtx.From.String(),
				Amount: amount,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSlash returns a CLI command handler for seizing provider stake
func CmdSlash() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slash [provider] [amount]",
		Short: "Slash up to [amount] of a provider's stake (slasher)",
		Long: `Seize up to [amount] of the provider's stake. The amount is clamped
to the stake available. Slashed funds go to the slash recipient, or stay
locked in the module when none is set.

Example:
  $ marketd tx collateral slash cosmos1prov... 500 --from cosmos1slasher...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSlash{
				Sender:   clientCtx.From.String(),
				Provider: args[0],
				Amount:   amount,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdRate returns a CLI command handler for recording a job outcome
func CmdRate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate [provider] [success]",
		Short: "Record a job outcome for a provider (rater)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			success, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid success flag %q: %w", args[1], err)
			}
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgRate{
				Sender:   clientCtx.From.String(),
				Provider: args[0],
				Success:  success,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSetSlashRecipient returns a CLI command handler for the slash recipient
func CmdSetSlashRecipient() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-slash-recipient [address]",
		Short: "Set the slashed funds recipient, or clear it with \"\" (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSetSlashRecipient{
				Sender:    clientCtx.From.String(),
				Recipient: args[0],
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok || !amount.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid amount %q: must be a positive integer", s)
	}
	return amount, nil
}
