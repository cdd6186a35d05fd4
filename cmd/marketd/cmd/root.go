package cmd

import (
	sdkclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	accesscli "github.com/paw-chain/zkmarket/x/access/client/cli"
	collateralcli "github.com/paw-chain/zkmarket/x/collateral/client/cli"
	computecli "github.com/paw-chain/zkmarket/x/compute/client/cli"
	tokencli "github.com/paw-chain/zkmarket/x/token/client/cli"
)

// NewRootCmd creates the marketd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marketd",
		Short: "Proof-gated compute escrow marketplace",
		Long: `marketd runs a compute marketplace where clients escrow payment for
jobs, providers stake collateral to accept them, and payment is released
only when a zero-knowledge proof of the job output verifies.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	client.AddHomeFlag(rootCmd)

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(),
		ExportCmd(),
		queryCommand(),
		txCommand(),
		VerifierCmd(),
	)

	return rootCmd
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	cmd.AddCommand(
		accesscli.GetQueryCmd(),
		tokencli.GetQueryCmd(),
		collateralcli.GetQueryCmd(),
		computecli.GetQueryCmd(),
		EventsCmd(),
		InvariantsCmd(),
	)

	return cmd
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	cmd.AddCommand(
		accesscli.GetTxCmd(),
		tokencli.GetTxCmd(),
		collateralcli.GetTxCmd(),
		computecli.GetTxCmd(),
	)

	return cmd
}
