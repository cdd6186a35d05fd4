package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/app"
	"github.com/paw-chain/zkmarket/client"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
)

const (
	flagKeysDir      = "keys-dir"
	flagImageBatch   = "image-batch"
	flagModelWeights = "model-weights"
	flagProofOut     = "out"
)

// VerifierCmd groups the groth16 key and proof tooling used by providers.
func VerifierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Groth16 key generation and proving tools",
	}
	cmd.AddCommand(keygenCmd(), proveCmd(), outputsCmd())
	return cmd
}

func keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a development key pair for the job output circuit",
		Long: `Run a groth16 setup for the job output circuit and write
<program-id>.vk and <program-id>.pk to the keys directory. Nodes load every
.vk file in their keys directory at start.

The setup randomness is discarded, so keys generated here are not suitable
for production networks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := keysDir(cmd)
			if err != nil {
				return err
			}

			kp, err := verifier.GenerateKeys()
			if err != nil {
				return err
			}
			if err := verifier.WriteKeys(dir, kp); err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"program_id": kp.ProgramID.String(),
				"keys_dir":   dir,
			})
		},
	}
	cmd.Flags().String(flagKeysDir, "", "key directory (default from app.toml)")
	return cmd
}

func proveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prove [program-id]",
		Short: "Prove the outputs of a job and write the proof to a file",
		Long: `Hash the image batch and model weights, prove knowledge of the
resulting outputs with the proving key of program-id, and write the proof.
The printed output_hash is the value to pass to submit-proof --output-hash.

Example:
  $ marketd verifier prove 3f1c... --image-batch batch.bin --model-weights weights.bin --out job7.proof`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := types.ParseDigest(args[0])
			if err != nil {
				return fmt.Errorf("invalid program id: %w", err)
			}
			outputs, err := readJobOutputs(cmd)
			if err != nil {
				return err
			}
			dir, err := keysDir(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString(flagProofOut)

			pk, err := verifier.ReadProvingKey(dir, programID)
			if err != nil {
				return err
			}
			prover, err := verifier.NewProver(pk)
			if err != nil {
				return err
			}
			proof, commitment, err := prover.Prove(outputs)
			if err != nil {
				return err
			}
			if err := writeFile(out, proof, 0o644); err != nil {
				return err
			}

			return printJSON(cmd, map[string]any{
				"program_id":  programID.String(),
				"output_hash": commitment.String(),
				"proof_file":  out,
				"proof_size":  len(proof),
				"outputs":     outputs,
			})
		},
	}
	cmd.Flags().String(flagKeysDir, "", "key directory (default from app.toml)")
	cmd.Flags().String(flagImageBatch, "", "path to the image batch")
	cmd.Flags().String(flagModelWeights, "", "path to the model weights")
	cmd.Flags().String(flagProofOut, "", "proof output file")
	_ = cmd.MarkFlagRequired(flagImageBatch)
	_ = cmd.MarkFlagRequired(flagModelWeights)
	_ = cmd.MarkFlagRequired(flagProofOut)
	return cmd
}

func outputsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the job output hashes and their commitment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputs, err := readJobOutputs(cmd)
			if err != nil {
				return err
			}
			commitment, err := verifier.OutputCommitment(outputs)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"outputs":     outputs,
				"output_hash": commitment.String(),
			})
		},
	}
	cmd.Flags().String(flagImageBatch, "", "path to the image batch")
	cmd.Flags().String(flagModelWeights, "", "path to the model weights")
	_ = cmd.MarkFlagRequired(flagImageBatch)
	_ = cmd.MarkFlagRequired(flagModelWeights)
	return cmd
}

func readJobOutputs(cmd *cobra.Command) (types.JobOutputs, error) {
	batchPath, _ := cmd.Flags().GetString(flagImageBatch)
	weightsPath, _ := cmd.Flags().GetString(flagModelWeights)

	batch, err := os.ReadFile(batchPath)
	if err != nil {
		return types.JobOutputs{}, fmt.Errorf("read image batch: %w", err)
	}
	weights, err := os.ReadFile(weightsPath)
	if err != nil {
		return types.JobOutputs{}, fmt.Errorf("read model weights: %w", err)
	}
	return types.ComputeJobOutputs(batch, weights), nil
}

// keysDir prefers --keys-dir and falls back to the configured directory.
func keysDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString(flagKeysDir); dir != "" {
		return dir, nil
	}
	home, _ := cmd.Flags().GetString(client.FlagHome)
	if home == "" {
		home = client.DefaultHome()
	}
	cfg, err := app.LoadConfig(home)
	if err != nil {
		return "", err
	}
	return cfg.Verifier.KeysDir, nil
}
