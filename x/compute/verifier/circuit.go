package verifier

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	nativemimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// limbBits is the width of each digest half. Two 128-bit limbs always fit
// in a BN254 scalar, so any 32-byte digest can be a private input.
const limbBits = 128

// JobOutputCircuit binds the three digests of a job's outputs to a single
// public commitment.
//
// Circuit statement: "I know an image batch hash, a model weights hash and
// a computation output hash whose MiMC commitment is Commitment."
//
// The commitment is the public output hash a provider submits with the
// proof; the program id selects the verifying key.
type JobOutputCircuit struct {
	// Public inputs
	Commitment frontend.Variable `gnark:",public"`

	// Private inputs, each digest split into hi/lo limbs
	ImageBatch   [2]frontend.Variable `gnark:",secret"`
	ModelWeights [2]frontend.Variable `gnark:",secret"`
	Output       [2]frontend.Variable `gnark:",secret"`
}

// Define implements the gnark Circuit interface.
func (c *JobOutputCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return fmt.Errorf("failed to initialize MiMC: %w", err)
	}

	limbs := []frontend.Variable{
		c.ImageBatch[0], c.ImageBatch[1],
		c.ModelWeights[0], c.ModelWeights[1],
		c.Output[0], c.Output[1],
	}
	for _, limb := range limbs {
		// range check keeps every limb a genuine digest half
		api.ToBinary(limb, limbBits)
	}

	h.Write(limbs...)
	api.AssertIsEqual(h.Sum(), c.Commitment)
	return nil
}

// splitDigest returns the big-endian hi and lo halves of d.
func splitDigest(d types.Digest) [2]*big.Int {
	return [2]*big.Int{
		new(big.Int).SetBytes(d[:types.DigestSize/2]),
		new(big.Int).SetBytes(d[types.DigestSize/2:]),
	}
}

// OutputCommitment computes the public commitment the circuit checks for
// outputs. It is the value providers submit as the output hash.
func OutputCommitment(outputs types.JobOutputs) (types.Digest, error) {
	h := nativemimc.NewMiMC()
	for _, d := range []types.Digest{outputs.ImageBatchHash, outputs.ModelWeightsHash, outputs.ComputationOutputHash} {
		for _, limb := range splitDigest(d) {
			var block [fr.Bytes]byte
			limb.FillBytes(block[:])
			if _, err := h.Write(block[:]); err != nil {
				return types.Digest{}, fmt.Errorf("commitment: %w", err)
			}
		}
	}
	return types.DigestFromBytes(h.Sum(nil))
}

// commitmentElement interprets d as a BN254 scalar. Digests at or above
// the field modulus cannot be a commitment.
func commitmentElement(d types.Digest) (*big.Int, error) {
	v := new(big.Int).SetBytes(d[:])
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, ErrInvalidPublicInput.Wrapf("output hash %s is not a field element", d)
	}
	return v, nil
}

// assignment builds a full witness assignment for outputs.
func assignment(outputs types.JobOutputs, commitment *big.Int) *JobOutputCircuit {
	img := splitDigest(outputs.ImageBatchHash)
	weights := splitDigest(outputs.ModelWeightsHash)
	out := splitDigest(outputs.ComputationOutputHash)
	return &JobOutputCircuit{
		Commitment:   commitment,
		ImageBatch:   [2]frontend.Variable{img[0], img[1]},
		ModelWeights: [2]frontend.Variable{weights[0], weights[1]},
		Output:       [2]frontend.Variable{out[0], out[1]},
	}
}
