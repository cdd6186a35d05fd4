package verifier

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// Groth16Verifier verifies job output proofs against per-program
// verifying keys.
type Groth16Verifier struct {
	mu           sync.RWMutex
	keys         map[types.Digest]groth16.VerifyingKey
	maxProofSize int
	logger       log.Logger
}

// NewGroth16Verifier returns a verifier with no programs. A maxProofSize
// of zero uses types.MaxProofSize.
func NewGroth16Verifier(logger log.Logger, maxProofSize int) *Groth16Verifier {
	if maxProofSize <= 0 {
		maxProofSize = types.MaxProofSize
	}
	return &Groth16Verifier{
		keys:         make(map[types.Digest]groth16.VerifyingKey),
		maxProofSize: maxProofSize,
		logger:       logger.With(log.ModuleKey, "verifier/groth16"),
	}
}

// AddProgram registers vk and returns its program id.
func (v *Groth16Verifier) AddProgram(vk groth16.VerifyingKey) (types.Digest, error) {
	programID, err := ProgramID(vk)
	if err != nil {
		return types.Digest{}, err
	}
	v.mu.Lock()
	v.keys[programID] = vk
	v.mu.Unlock()
	return programID, nil
}

// LoadDir registers every <program-id>.vk file in dir. A file whose
// content does not hash to its name is rejected.
func (v *Groth16Verifier) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	loaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, VerifyingKeyExt) {
			continue
		}
		want, err := types.ParseDigest(strings.TrimSuffix(name, VerifyingKeyExt))
		if err != nil {
			return loaded, ErrInvalidKey.Wrapf("%s: %s", name, err)
		}
		bz, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return loaded, err
		}
		vk, err := ReadVerifyingKey(bz)
		if err != nil {
			return loaded, err
		}
		got, err := v.AddProgram(vk)
		if err != nil {
			return loaded, err
		}
		if got != want {
			v.mu.Lock()
			delete(v.keys, got)
			v.mu.Unlock()
			return loaded, ErrInvalidKey.Wrapf("%s hashes to program %s", name, got)
		}
		loaded++
		v.logger.Info("loaded verifying key", "program_id", got.String())
	}
	return loaded, nil
}

// Programs lists the registered program ids.
func (v *Groth16Verifier) Programs() []types.Digest {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]types.Digest, 0, len(v.keys))
	for id := range v.keys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// Verify checks proof against the verifying key of programID with
// publicOutputHash as the circuit's public commitment.
func (v *Groth16Verifier) Verify(ctx context.Context, proof []byte, programID types.Digest, publicOutputHash types.Digest) error {
	if len(proof) == 0 {
		return ErrMalformedProof.Wrap("empty proof")
	}
	if len(proof) > v.maxProofSize {
		return ErrProofTooLarge.Wrapf("%d bytes exceeds %d", len(proof), v.maxProofSize)
	}

	v.mu.RLock()
	vk, ok := v.keys[programID]
	v.mu.RUnlock()
	if !ok {
		return ErrUnknownProgram.Wrapf("program %s", programID)
	}

	commitment, err := commitmentElement(publicOutputHash)
	if err != nil {
		return err
	}

	p := groth16.NewProof(ecc.BN254)
	if _, err := p.ReadFrom(bytes.NewReader(proof)); err != nil {
		return ErrMalformedProof.Wrap(err.Error())
	}

	publicWitness, err := frontend.NewWitness(&JobOutputCircuit{Commitment: commitment}, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return ErrInvalidPublicInput.Wrap(err.Error())
	}

	if err := groth16.Verify(p, vk, publicWitness); err != nil {
		return ErrProofRejected.Wrapf("program %s: %s", programID, err)
	}
	return nil
}
