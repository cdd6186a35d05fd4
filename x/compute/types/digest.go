package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// DigestSize is the byte length of program ids and output hashes.
const DigestSize = 32

// Digest is a 32-byte identifier. It renders as lowercase hex.
type Digest [DigestSize]byte

// ParseDigest parses a 64-character hex string, with or without 0x prefix.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	bz, err := hex.DecodeString(s)
	if err != nil {
		return d, ErrInvalidDigest.Wrapf("%q: %s", s, err)
	}
	if len(bz) != DigestSize {
		return d, ErrInvalidDigest.Wrapf("%q: got %d bytes, want %d", s, len(bz), DigestSize)
	}
	copy(d[:], bz)
	return d, nil
}

// DigestFromBytes copies a 32-byte slice into a Digest.
func DigestFromBytes(bz []byte) (Digest, error) {
	var d Digest
	if len(bz) != DigestSize {
		return d, ErrInvalidDigest.Wrapf("got %d bytes, want %d", len(bz), DigestSize)
	}
	copy(d[:], bz)
	return d, nil
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether every byte is zero.
func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

func (d *Digest) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return fmt.Errorf("digest must be a hex string: %w", err)
	}
	if s == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// JobOutputs are the three hashes a provider's computation commits to:
// the input batch, the model weights, and the computation output derived
// from both.
type JobOutputs struct {
	ImageBatchHash        Digest `json:"image_batch_hash"`
	ModelWeightsHash      Digest `json:"model_weights_hash"`
	ComputationOutputHash Digest `json:"computation_output_hash"`
}

// ComputeJobOutputs hashes the raw input batch and weights and derives the
// output hash as sha256(image_batch_hash || model_weights_hash).
func ComputeJobOutputs(imageBatch, modelWeights []byte) JobOutputs {
	out := JobOutputs{
		ImageBatchHash:   sha256.Sum256(imageBatch),
		ModelWeightsHash: sha256.Sum256(modelWeights),
	}
	out.ComputationOutputHash = DeriveOutputHash(out.ImageBatchHash, out.ModelWeightsHash)
	return out
}

// DeriveOutputHash returns sha256(imageBatchHash || modelWeightsHash).
func DeriveOutputHash(imageBatchHash, modelWeightsHash Digest) Digest {
	h := sha256.New()
	h.Write(imageBatchHash[:])
	h.Write(modelWeightsHash[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Validate checks that the output hash is derived from the two input hashes.
func (o JobOutputs) Validate() error {
	if want := DeriveOutputHash(o.ImageBatchHash, o.ModelWeightsHash); want != o.ComputationOutputHash {
		return ErrInvalidJobOutputs.Wrapf("computation output %s, derived %s", o.ComputationOutputHash, want)
	}
	return nil
}
