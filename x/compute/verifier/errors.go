package verifier

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

// Codespace is the error codespace of the verification oracles.
const Codespace = "verifier"

var (
	ErrUnknownProgram     = errorsmod.Register(Codespace, 2, "no verifying key for program")
	ErrMalformedProof     = errorsmod.Register(Codespace, 3, "malformed proof")
	ErrInvalidPublicInput = errorsmod.Register(Codespace, 4, "invalid public input")
	ErrProofRejected      = errorsmod.Register(Codespace, 5, "proof rejected")
	ErrProofTooLarge      = errorsmod.Register(Codespace, 6, "proof exceeds maximum size")
	ErrInvalidKey         = errorsmod.Register(Codespace, 7, "invalid key material")
)

func init() {
	failure.Register(failure.KindValidation, ErrMalformedProof, ErrInvalidPublicInput, ErrProofTooLarge)
	failure.Register(failure.KindNotFound, ErrUnknownProgram)
	failure.Register(failure.KindExternal, ErrProofRejected)
	failure.Register(failure.KindInternal, ErrInvalidKey)
}
