package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/app"
	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

const (
	flagOutputDocument = "output-document"
	flagAfter          = "after"
	flagType           = "type"
	flagLimit          = "limit"
)

// ExportCmd dumps the current state as a genesis file.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export state to a genesis file",
		Long: `Export the state of every module in the genesis.json format. The
output can be used as the genesis of a new node.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			gs, err := clientCtx.App.ExportGenesis(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to export state: %w", err)
			}

			if out, _ := cmd.Flags().GetString(flagOutputDocument); out != "" {
				return app.WriteGenesisFile(out, gs)
			}
			return clientCtx.PrintJSON(gs)
		},
	}

	cmd.Flags().String(flagOutputDocument, "", "write the exported genesis to this path instead of stdout")
	return cmd
}

// EventsCmd lists committed events from the persisted event log.
func EventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List committed events after a sequence number",
		Long: `List events from the event log in commit order.

Example:
  $ marketd query events --after 120 --type job_completed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, _ := cmd.Flags().GetUint64(flagAfter)
			eventType, _ := cmd.Flags().GetString(flagType)
			limit, _ := cmd.Flags().GetUint64(flagLimit)

			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			events := []txn.EventRecord{}
			err = clientCtx.App.Executor.IterateEvents(cmd.Context(), after, func(rec txn.EventRecord) bool {
				if eventType != "" && rec.Type != eventType {
					return false
				}
				events = append(events, rec)
				return limit > 0 && uint64(len(events)) >= limit
			})
			if err != nil {
				return err
			}
			lastSeq, err := clientCtx.App.Executor.LastEventSeq(cmd.Context())
			if err != nil {
				return err
			}
			return clientCtx.PrintJSON(map[string]any{"events": events, "last_seq": lastSeq})
		},
	}

	cmd.Flags().Uint64(flagAfter, 0, "only events with a greater sequence number")
	cmd.Flags().String(flagType, "", "only events of this type")
	cmd.Flags().Uint64(flagLimit, 100, "maximum number of events (0 for all)")
	return cmd
}

// InvariantsCmd runs every registered invariant.
func InvariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invariants",
		Short: "Check the ledger invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			broken, err := clientCtx.App.CheckInvariants(cmd.Context())
			if err != nil {
				return err
			}
			if err := clientCtx.PrintJSON(map[string]any{"broken": broken}); err != nil {
				return err
			}
			if len(broken) > 0 {
				return fmt.Errorf("%d invariant(s) broken", len(broken))
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func writeFile(path string, bz []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, bz, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
