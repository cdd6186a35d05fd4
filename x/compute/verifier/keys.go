package verifier

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

const (
	// VerifyingKeyExt is the file extension of serialized verifying keys.
	VerifyingKeyExt = ".vk"
	// ProvingKeyExt is the file extension of serialized proving keys.
	ProvingKeyExt = ".pk"
)

// Compile compiles the job output circuit to R1CS over BN254.
func Compile() (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &JobOutputCircuit{})
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}
	return ccs, nil
}

// KeyPair is a groth16 key pair for the job output circuit. ProgramID
// identifies the verifying key on chain.
type KeyPair struct {
	ProgramID    types.Digest
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// GenerateKeys runs a direct groth16 setup for the job output circuit.
// The setup randomness is not retained, so this is suitable for
// development networks only.
func GenerateKeys() (*KeyPair, error) {
	ccs, err := Compile()
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("failed to setup keys: %w", err)
	}
	programID, err := ProgramID(vk)
	if err != nil {
		return nil, err
	}
	return &KeyPair{ProgramID: programID, ProvingKey: pk, VerifyingKey: vk}, nil
}

// ProgramID derives a program id as the SHA-256 of the serialized
// verifying key.
func ProgramID(vk groth16.VerifyingKey) (types.Digest, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return types.Digest{}, ErrInvalidKey.Wrapf("serialize verifying key: %s", err)
	}
	return sha256.Sum256(buf.Bytes()), nil
}

// WriteKeys stores kp under dir as <program-id>.vk and <program-id>.pk.
func WriteKeys(dir string, kp *KeyPair) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	var vkBuf, pkBuf bytes.Buffer
	if _, err := kp.VerifyingKey.WriteTo(&vkBuf); err != nil {
		return ErrInvalidKey.Wrapf("serialize verifying key: %s", err)
	}
	if _, err := kp.ProvingKey.WriteTo(&pkBuf); err != nil {
		return ErrInvalidKey.Wrapf("serialize proving key: %s", err)
	}

	base := filepath.Join(dir, kp.ProgramID.String())
	if err := os.WriteFile(base+VerifyingKeyExt, vkBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write verifying key: %w", err)
	}
	if err := os.WriteFile(base+ProvingKeyExt, pkBuf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write proving key: %w", err)
	}
	return nil
}

// ReadVerifyingKey decodes a serialized verifying key.
func ReadVerifyingKey(bz []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(bz)); err != nil {
		return nil, ErrInvalidKey.Wrapf("deserialize verifying key: %s", err)
	}
	return vk, nil
}

// ReadProvingKey loads the proving key for programID from dir.
func ReadProvingKey(dir string, programID types.Digest) (groth16.ProvingKey, error) {
	bz, err := os.ReadFile(filepath.Join(dir, programID.String()+ProvingKeyExt))
	if err != nil {
		return nil, fmt.Errorf("read proving key: %w", err)
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(bytes.NewReader(bz)); err != nil {
		return nil, ErrInvalidKey.Wrapf("deserialize proving key: %s", err)
	}
	return pk, nil
}

// Prover produces proofs for the job output circuit.
type Prover struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
}

// NewProver compiles the circuit and binds it to pk.
func NewProver(pk groth16.ProvingKey) (*Prover, error) {
	ccs, err := Compile()
	if err != nil {
		return nil, err
	}
	return &Prover{ccs: ccs, pk: pk}, nil
}

// Prove proves knowledge of outputs and returns the serialized proof
// together with the public commitment to submit alongside it.
func (p *Prover) Prove(outputs types.JobOutputs) ([]byte, types.Digest, error) {
	if err := outputs.Validate(); err != nil {
		return nil, types.Digest{}, err
	}
	commitment, err := OutputCommitment(outputs)
	if err != nil {
		return nil, types.Digest{}, err
	}
	element, err := commitmentElement(commitment)
	if err != nil {
		return nil, types.Digest{}, err
	}

	witness, err := frontend.NewWitness(assignment(outputs, element), ecc.BN254.ScalarField())
	if err != nil {
		return nil, types.Digest{}, fmt.Errorf("failed to create witness: %w", err)
	}
	proof, err := groth16.Prove(p.ccs, p.pk, witness)
	if err != nil {
		return nil, types.Digest{}, fmt.Errorf("failed to generate proof: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, types.Digest{}, fmt.Errorf("failed to serialize proof: %w", err)
	}
	return buf.Bytes(), commitment, nil
}
