package types

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseDigest(t *testing.T) {
	hexDigest := strings.Repeat("ab", DigestSize)

	d, err := ParseDigest(hexDigest)
	require.NoError(t, err)
	require.Equal(t, hexDigest, d.String())

	prefixed, err := ParseDigest("0x" + hexDigest)
	require.NoError(t, err)
	require.Equal(t, d, prefixed)

	_, err = ParseDigest(hexDigest[:62])
	require.ErrorIs(t, err, ErrInvalidDigest)
	_, err = ParseDigest(strings.Repeat("zz", DigestSize))
	require.ErrorIs(t, err, ErrInvalidDigest)

	_, err = DigestFromBytes(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidDigest)
}

func TestDigest_JSON(t *testing.T) {
	var zero Digest
	bz, err := json.Marshal(zero)
	require.NoError(t, err)
	require.Equal(t, `""`, string(bz))

	var decoded Digest
	decoded[0] = 1
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.True(t, decoded.IsZero())

	require.Error(t, json.Unmarshal([]byte(`42`), &decoded))
	require.ErrorIs(t, json.Unmarshal([]byte(`"abcd"`), &decoded), ErrInvalidDigest)
}

func TestDigest_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bz := rapid.SliceOfN(rapid.Byte(), DigestSize, DigestSize).Draw(rt, "bytes")
		d, err := DigestFromBytes(bz)
		require.NoError(rt, err)

		parsed, err := ParseDigest(d.String())
		require.NoError(rt, err)
		require.Equal(rt, d, parsed)

		enc, err := json.Marshal(d)
		require.NoError(rt, err)
		var decoded Digest
		require.NoError(rt, json.Unmarshal(enc, &decoded))
		require.Equal(rt, d, decoded)
	})
}

// TestComputeJobOutputs tests the output hash derivation over the two input hashes
func TestComputeJobOutputs(t *testing.T) {
	batch := []byte("image batch 0001")
	weights := []byte("resnet50 weights")

	out := ComputeJobOutputs(batch, weights)
	require.Equal(t, Digest(sha256.Sum256(batch)), out.ImageBatchHash)
	require.Equal(t, Digest(sha256.Sum256(weights)), out.ModelWeightsHash)

	concat := append(append([]byte{}, out.ImageBatchHash[:]...), out.ModelWeightsHash[:]...)
	require.Equal(t, Digest(sha256.Sum256(concat)), out.ComputationOutputHash)
	require.NoError(t, out.Validate())

	// order matters
	swapped := DeriveOutputHash(out.ModelWeightsHash, out.ImageBatchHash)
	require.NotEqual(t, out.ComputationOutputHash, swapped)

	out.ComputationOutputHash = swapped
	require.ErrorIs(t, out.Validate(), ErrInvalidJobOutputs)
}
