package verifier

import (
	"context"
	"sync"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// Rule decides whether a proof is accepted.
type Rule func(proof []byte, programID, publicOutputHash types.Digest) error

// StaticVerifier answers every verification with a fixed rule. It is
// meant for tests and development networks.
type StaticVerifier struct {
	mu    sync.Mutex
	rule  Rule
	calls int
}

// NewStaticVerifier returns a verifier applying rule.
func NewStaticVerifier(rule Rule) *StaticVerifier {
	return &StaticVerifier{rule: rule}
}

// AcceptAll accepts every proof.
func AcceptAll() Rule {
	return func([]byte, types.Digest, types.Digest) error { return nil }
}

// RejectAll rejects every proof.
func RejectAll() Rule {
	return func([]byte, types.Digest, types.Digest) error {
		return ErrProofRejected.Wrap("static verifier rejects all proofs")
	}
}

// AcceptProof accepts exactly the given proof bytes.
func AcceptProof(expected []byte) Rule {
	return func(proof []byte, _, _ types.Digest) error {
		if string(proof) != string(expected) {
			return ErrProofRejected.Wrap("proof does not match")
		}
		return nil
	}
}

// SetRule replaces the rule.
func (s *StaticVerifier) SetRule(rule Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rule = rule
}

// Calls returns how many times Verify ran.
func (s *StaticVerifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StaticVerifier) Verify(_ context.Context, proof []byte, programID, publicOutputHash types.Digest) error {
	s.mu.Lock()
	s.calls++
	rule := s.rule
	s.mu.Unlock()
	return rule(proof, programID, publicOutputHash)
}
