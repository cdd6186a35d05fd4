package cmd

import (
	"fmt"
	"os"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/app"
	"github.com/paw-chain/zkmarket/client"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
)

const (
	flagAdmin        = "admin"
	flagOverwrite    = "overwrite"
	flagDefaultDenom = "default-denom"
	flagLifecycle    = "lifecycle"
)

// InitCmd returns a command that writes app.toml and genesis.json under
// the node home.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration and genesis files",
		Long: `Write default app.toml and a genesis.json whose only grants give
--admin the admin role.

Example:
  marketd init --admin cosmos1... --home ~/.zkmarket
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := cmd.Flags().GetString(client.FlagHome)

			adminStr, _ := cmd.Flags().GetString(flagAdmin)
			admin, err := sdk.AccAddressFromBech32(adminStr)
			if err != nil {
				return fmt.Errorf("--%s: %w", flagAdmin, err)
			}

			genFile := app.GenesisPath(home)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			if !overwrite && fileExists(genFile) {
				return fmt.Errorf("genesis.json file already exists: %v", genFile)
			}

			gs := app.NewDefaultGenesisState(admin)
			denom, _ := cmd.Flags().GetString(flagDefaultDenom)
			lifecycle, _ := cmd.Flags().GetString(flagLifecycle)
			if err := customizeGenesis(gs, denom, computetypes.Lifecycle(lifecycle)); err != nil {
				return err
			}
			if err := gs.Validate(); err != nil {
				return fmt.Errorf("invalid genesis: %w", err)
			}

			if !fileExists(app.ConfigPath(home)) || overwrite {
				if err := app.WriteDefaultConfig(home); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
			}
			if err := app.WriteGenesisFile(genFile, gs); err != nil {
				return fmt.Errorf("write genesis: %w", err)
			}

			return printJSON(cmd, map[string]any{
				"home":    home,
				"admin":   admin.String(),
				"config":  app.ConfigPath(home),
				"genesis": genFile,
			})
		},
	}

	cmd.Flags().String(flagAdmin, "", "bech32 address granted the admin role")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite existing genesis.json and app.toml")
	cmd.Flags().String(flagDefaultDenom, "", "payment and stake denom (default "+computetypes.DefaultPaymentDenom+")")
	cmd.Flags().String(flagLifecycle, string(computetypes.LifecycleSinglePhase), "job lifecycle (single_phase|two_phase)")
	_ = cmd.MarkFlagRequired(flagAdmin)

	return cmd
}

func customizeGenesis(gs app.GenesisState, denom string, lifecycle computetypes.Lifecycle) error {
	compute, err := gs.Compute()
	if err != nil {
		return err
	}
	collateral, err := gs.Collateral()
	if err != nil {
		return err
	}

	if denom != "" {
		compute.Params.PaymentDenom = denom
		collateral.Params.StakeDenom = denom
	}
	if lifecycle != "" {
		compute.Params.Lifecycle = lifecycle
	}

	if err := gs.Set(computetypes.ModuleName, compute); err != nil {
		return err
	}
	return gs.Set(collateraltypes.ModuleName, collateral)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
