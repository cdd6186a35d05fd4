package verifier_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
)

func setupProver(t *testing.T) (*verifier.KeyPair, *verifier.Prover) {
	t.Helper()
	kp, err := verifier.GenerateKeys()
	require.NoError(t, err)
	prover, err := verifier.NewProver(kp.ProvingKey)
	require.NoError(t, err)
	return kp, prover
}

// TestGroth16Verifier_EndToEnd tests proving and verifying a job output commitment
func TestGroth16Verifier_EndToEnd(t *testing.T) {
	kp, prover := setupProver(t)

	v := verifier.NewGroth16Verifier(log.NewNopLogger(), 0)
	programID, err := v.AddProgram(kp.VerifyingKey)
	require.NoError(t, err)
	require.Equal(t, kp.ProgramID, programID)

	outputs := types.ComputeJobOutputs([]byte("image batch"), []byte("resnet weights"))
	proof, commitment, err := prover.Prove(outputs)
	require.NoError(t, err)

	expected, err := verifier.OutputCommitment(outputs)
	require.NoError(t, err)
	require.Equal(t, expected, commitment)

	ctx := context.Background()
	require.NoError(t, v.Verify(ctx, proof, programID, commitment))

	t.Run("wrong commitment", func(t *testing.T) {
		other, err := verifier.OutputCommitment(types.ComputeJobOutputs([]byte("other"), []byte("resnet weights")))
		require.NoError(t, err)
		err = v.Verify(ctx, proof, programID, other)
		require.ErrorIs(t, err, verifier.ErrProofRejected)
	})

	t.Run("unknown program", func(t *testing.T) {
		err := v.Verify(ctx, proof, types.Digest{0x01}, commitment)
		require.ErrorIs(t, err, verifier.ErrUnknownProgram)
	})

	t.Run("garbage proof", func(t *testing.T) {
		err := v.Verify(ctx, []byte{0xde, 0xad}, programID, commitment)
		require.ErrorIs(t, err, verifier.ErrMalformedProof)
	})

	t.Run("commitment outside field", func(t *testing.T) {
		var high types.Digest
		for i := range high {
			high[i] = 0xff
		}
		err := v.Verify(ctx, proof, programID, high)
		require.ErrorIs(t, err, verifier.ErrInvalidPublicInput)
	})
}

// TestGroth16Verifier_ProofSize tests the configured proof size limit
func TestGroth16Verifier_ProofSize(t *testing.T) {
	v := verifier.NewGroth16Verifier(log.NewNopLogger(), 16)
	err := v.Verify(context.Background(), make([]byte, 17), types.Digest{}, types.Digest{})
	require.ErrorIs(t, err, verifier.ErrProofTooLarge)

	err = v.Verify(context.Background(), nil, types.Digest{}, types.Digest{})
	require.ErrorIs(t, err, verifier.ErrMalformedProof)
}

// TestProver_RejectsInconsistentOutputs tests that the prover refuses outputs whose hash is not derived
func TestProver_RejectsInconsistentOutputs(t *testing.T) {
	_, prover := setupProver(t)

	outputs := types.ComputeJobOutputs([]byte("a"), []byte("b"))
	outputs.ComputationOutputHash[0] ^= 0xff
	_, _, err := prover.Prove(outputs)
	require.ErrorIs(t, err, types.ErrInvalidJobOutputs)
}

// TestLoadDir tests loading verifying keys written by WriteKeys
func TestLoadDir(t *testing.T) {
	kp, err := verifier.GenerateKeys()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, verifier.WriteKeys(dir, kp))

	v := verifier.NewGroth16Verifier(log.NewNopLogger(), 0)
	n, err := v.LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []types.Digest{kp.ProgramID}, v.Programs())

	pk, err := verifier.ReadProvingKey(dir, kp.ProgramID)
	require.NoError(t, err)
	prover, err := verifier.NewProver(pk)
	require.NoError(t, err)
	outputs := types.ComputeJobOutputs([]byte("img"), []byte("w"))
	proof, commitment, err := prover.Prove(outputs)
	require.NoError(t, err)
	require.NoError(t, v.Verify(context.Background(), proof, kp.ProgramID, commitment))

	t.Run("renamed key is rejected", func(t *testing.T) {
		bad := t.TempDir()
		bz, err := os.ReadFile(filepath.Join(dir, kp.ProgramID.String()+verifier.VerifyingKeyExt))
		require.NoError(t, err)
		wrongName := types.Digest{0xaa}
		require.NoError(t, os.WriteFile(filepath.Join(bad, wrongName.String()+verifier.VerifyingKeyExt), bz, 0o644))

		fresh := verifier.NewGroth16Verifier(log.NewNopLogger(), 0)
		_, err = fresh.LoadDir(bad)
		require.ErrorIs(t, err, verifier.ErrInvalidKey)
		require.Empty(t, fresh.Programs())
	})

	t.Run("missing dir loads nothing", func(t *testing.T) {
		n, err := verifier.NewGroth16Verifier(log.NewNopLogger(), 0).LoadDir(filepath.Join(dir, "absent"))
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

// TestStaticVerifier tests the rule-based verifier
func TestStaticVerifier(t *testing.T) {
	ctx := context.Background()
	v := verifier.NewStaticVerifier(verifier.AcceptProof([]byte("ok")))

	require.NoError(t, v.Verify(ctx, []byte("ok"), types.Digest{}, types.Digest{}))
	require.ErrorIs(t, v.Verify(ctx, []byte("nope"), types.Digest{}, types.Digest{}), verifier.ErrProofRejected)

	v.SetRule(verifier.RejectAll())
	require.ErrorIs(t, v.Verify(ctx, []byte("ok"), types.Digest{}, types.Digest{}), verifier.ErrProofRejected)
	require.Equal(t, 3, v.Calls())
}
