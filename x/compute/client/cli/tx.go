package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	sdkclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// GetTxCmd returns the transaction commands for the compute module
func GetTxCmd() *cobra.Command {
	computeTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Compute transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       sdkclient.ValidateCmd,
	}

	computeTxCmd.AddCommand(
		CmdCreateJob(),
		CmdAcceptJob(),
		CmdCancelJob(),
		CmdSubmitResult(),
		CmdClaimAndPay(),
		CmdSubmitProof(),
		CmdSetMinProviderStake(),
		CmdSetVerifier(),
		CmdSetStakeLedger(),
		CmdSetLifecycle(),
	)

	return computeTxCmd
}

// CmdCreateJob returns a CLI command handler for escrowing a new job
func CmdCreateJob() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-job [data-ref] [amount]",
		Short: "Escrow payment for a new compute job",
		Long: `Escrow [amount] of the payment denom for a job over [data-ref].

The sender must have approved the compute module account for at least
[amount]. The deadline is either --deadline (RFC3339) or now plus --ttl.

Example:
  $ marketd tx compute create-job ipfs://bafy... 1000 \
    --program-id 5e8f... --ttl 24h --from cosmos1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			deadline, err := parseDeadline(cmd, clientCtx.App.Now())
			if err != nil {
				return err
			}

			var programID types.Digest
			if s, _ := cmd.Flags().GetString(FlagProgramID); s != "" {
				if programID, err = types.ParseDigest(s); err != nil {
					return fmt.Errorf("--%s: %w", FlagProgramID, err)
				}
			}

			msg := &types.MsgCreateJob{
				Sender:    clientCtx.From.String(),
				DataRef:   args[0],
				Amount:    amount,
				Deadline:  deadline,
				ProgramID: programID,
			}
			return clientCtx.BroadcastMsg(cmd.Context(), msg)
		},
	}

	cmd.Flags().Duration(FlagTTL, 24*time.Hour, "time until the job deadline")
	cmd.Flags().String(FlagDeadline, "", "absolute job deadline (RFC3339), overrides --ttl")
	cmd.Flags().String(FlagProgramID, "", "hex program id the proof must verify against")
	client.AddTxFlags(cmd)
	return cmd
}

// CmdAcceptJob returns a CLI command handler for binding a provider to a job
func CmdAcceptJob() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept-job [job-id]",
		Short: "Accept an open job as provider",
		Long: `Bind the sender as provider of an open job. The sender must hold at
least the minimum provider stake on the configured stake ledger.

Example:
  $ marketd tx compute accept-job 1 --from cosmos1...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobMsg(cmd, args[0], func(sender string, jobID uint64) *types.MsgAcceptJob {
				return &types.MsgAcceptJob{Sender: sender, JobID: jobID}
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdCancelJob returns a CLI command handler for refunding a job
func CmdCancelJob() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel-job [job-id]",
		Short: "Cancel a job and refund its escrow",
		Long: `Cancel a job owned by the sender. Open jobs can be cancelled at any
time; accepted jobs only once their deadline has passed.

Example:
  $ marketd tx compute cancel-job 1 --from cosmos1...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobMsg(cmd, args[0], func(sender string, jobID uint64) *types.MsgCancelJob {
				return &types.MsgCancelJob{Sender: sender, JobID: jobID}
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSubmitResult returns a CLI command handler for recording a two-phase result
func CmdSubmitResult() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-result [job-id] [result-ref]",
		Short: "Submit the result of a two-phase job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobMsg(cmd, args[0], func(sender string, jobID uint64) *types.MsgSubmitResult {
				return &types.MsgSubmitResult{Sender: sender, JobID: jobID, ResultRef: args[1]}
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdClaimAndPay returns a CLI command handler for releasing a two-phase job's escrow
func CmdClaimAndPay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [job-id]",
		Short: "Accept a submitted result and pay the provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobMsg(cmd, args[0], func(sender string, jobID uint64) *types.MsgClaimAndPay {
				return &types.MsgClaimAndPay{Sender: sender, JobID: jobID}
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSubmitProof returns a CLI command handler for proof-gated settlement
func CmdSubmitProof() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-proof [job-id] [proof-file]",
		Short: "Submit a proof of the job output and claim payment",
		Long: `Verify the proof in [proof-file] against the job's program id and
--output-hash, then pay the escrow to the sender.

Example:
  $ marketd tx compute submit-proof 1 ./proof.bin \
    --output-hash 9c1d... --result-ref ipfs://bafy... --from cosmos1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proof, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read proof: %w", err)
			}
			hashHex, _ := cmd.Flags().GetString(FlagOutputHash)
			outputHash, err := types.ParseDigest(hashHex)
			if err != nil {
				return fmt.Errorf("--%s: %w", FlagOutputHash, err)
			}
			resultRef, _ := cmd.Flags().GetString(FlagResultRef)

			return runJobMsg(cmd, args[0], func(sender string, jobID uint64) *types.MsgSubmitProofAndClaim {
				return &types.MsgSubmitProofAndClaim{
					Sender:     sender,
					JobID:      jobID,
					Proof:      proof,
					OutputHash: outputHash,
					ResultRef:  resultRef,
				}
			})
		},
	}

	cmd.Flags().String(FlagOutputHash, "", "hex public output hash the proof commits to")
	cmd.Flags().String(FlagResultRef, "", "optional reference to the result payload")
	_ = cmd.MarkFlagRequired(FlagOutputHash)
	client.AddTxFlags(cmd)
	return cmd
}

// CmdSetMinProviderStake returns a CLI command handler for the minimum provider stake
func CmdSetMinProviderStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-min-stake [amount]",
		Short: "Set the minimum stake required to accept jobs (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			amount, ok := math.NewIntFromString(args[0])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSetMinProviderStake{
				Sender: clientCtx.From.String(),
				Amount: amount,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSetVerifier returns a CLI command handler for selecting the verifier
func CmdSetVerifier() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-verifier [name]",
		Short: "Select a registered verifier, or none with \"\" (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSetVerifier{
				Sender: clientCtx.From.String(),
				Name:   args[0],
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSetStakeLedger returns a CLI command handler for selecting the stake ledger
func CmdSetStakeLedger() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-stake-ledger [name]",
		Short: "Select a registered stake ledger, or none with \"\" (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSetStakeLedger{
				Sender: clientCtx.From.String(),
				Name:   args[0],
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// CmdSetLifecycle returns a CLI command handler for the lifecycle of new jobs
func CmdSetLifecycle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-lifecycle [single_phase|two_phase]",
		Short: "Set the lifecycle applied to jobs created afterwards (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lifecycle := types.Lifecycle(args[0])
			if err := lifecycle.Validate(); err != nil {
				return err
			}

			clientCtx, err := client.GetClientContext(cmd)
			if err != nil {
				return err
			}
			defer clientCtx.Close()

			return clientCtx.BroadcastMsg(cmd.Context(), &types.MsgSetLifecycle{
				Sender:    clientCtx.From.String(),
				Lifecycle: lifecycle,
			})
		},
	}

	client.AddTxFlags(cmd)
	return cmd
}

// runJobMsg opens the client context, parses the job id and delivers the
// message built by build.
func runJobMsg[M txn.Msg](cmd *cobra.Command, rawID string, build func(sender string, jobID uint64) M) error {
	jobID, err := parseJobID(rawID)
	if err != nil {
		return err
	}
	clientCtx, err := client.GetClientContext(cmd)
	if err != nil {
		return err
	}
	defer clientCtx.Close()

	return clientCtx.BroadcastMsg(cmd.Context(), build(clientCtx.From.String(), jobID))
}

func parseJobID(s string) (uint64, error) {
	jobID, err := strconv.ParseUint(s, 10, 64)
	if err != nil || jobID == 0 {
		return 0, fmt.Errorf("invalid job ID %q", s)
	}
	return jobID, nil
}

func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(strings.TrimSpace(s))
	if !ok || !amount.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid amount %q: must be a positive integer", s)
	}
	return amount, nil
}

func parseDeadline(cmd *cobra.Command, now time.Time) (time.Time, error) {
	if s, _ := cmd.Flags().GetString(FlagDeadline); s != "" {
		deadline, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("--%s: %w", FlagDeadline, err)
		}
		return deadline.UTC(), nil
	}
	ttl, err := cmd.Flags().GetDuration(FlagTTL)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(ttl), nil
}
