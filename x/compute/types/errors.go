package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

// Compute module sentinel errors with recovery suggestions

var (
	// Input validation errors
	ErrEscrowAmountZero       = sdkerrors.Register(ModuleName, 2, "escrow amount must be positive")
	ErrDeadlineMustBeInFuture = sdkerrors.Register(ModuleName, 3, "deadline must be in the future")
	ErrInvalidDataRef         = sdkerrors.Register(ModuleName, 4, "invalid job data reference")
	ErrInvalidDigest          = sdkerrors.Register(ModuleName, 5, "invalid 32-byte digest")
	ErrMissingProgramID       = sdkerrors.Register(ModuleName, 6, "program id required")
	ErrInvalidAddress         = sdkerrors.Register(ModuleName, 7, "invalid address")
	ErrInvalidJobID           = sdkerrors.Register(ModuleName, 8, "invalid job id")
	ErrInvalidDenom           = sdkerrors.Register(ModuleName, 9, "invalid denom")
	ErrInvalidParams          = sdkerrors.Register(ModuleName, 10, "invalid compute params")
	ErrInvalidLifecycle       = sdkerrors.Register(ModuleName, 11, "invalid job lifecycle")
	ErrInvalidJobStatusName   = sdkerrors.Register(ModuleName, 12, "invalid job status")
	ErrInvalidResultRef       = sdkerrors.Register(ModuleName, 13, "invalid result reference")
	ErrInvalidJobOutputs      = sdkerrors.Register(ModuleName, 14, "inconsistent job outputs")
	ErrProofTooLarge          = sdkerrors.Register(ModuleName, 15, "proof size exceeds maximum allowed")
	ErrInvalidGenesis         = sdkerrors.Register(ModuleName, 16, "invalid compute genesis")
	ErrInvalidRequest         = sdkerrors.Register(ModuleName, 17, "invalid query request")

	// Authorization errors
	ErrOnlyClient                               = sdkerrors.Register(ModuleName, 20, "only the job client may perform this action")
	ErrOnlyAssignedProviderCanSubmit            = sdkerrors.Register(ModuleName, 21, "only the assigned provider can submit")
	ErrProviderNotRegisteredOrInsufficientStake = sdkerrors.Register(ModuleName, 22, "provider not registered or insufficient stake")

	// Lifecycle errors
	ErrJobNotFound           = sdkerrors.Register(ModuleName, 30, "job not found")
	ErrInvalidJobStatus      = sdkerrors.Register(ModuleName, 31, "invalid job status")
	ErrDeadlinePassed        = sdkerrors.Register(ModuleName, 32, "deadline passed")
	ErrJobAlreadyHasProvider = sdkerrors.Register(ModuleName, 33, "job already has a provider")
	ErrLifecycleMismatch     = sdkerrors.Register(ModuleName, 34, "operation not available in this job lifecycle")

	// External dependency errors
	ErrTokenTransferFailed       = sdkerrors.Register(ModuleName, 40, "token transfer failed")
	ErrZKProofVerificationFailed = sdkerrors.Register(ModuleName, 41, "zk proof verification failed")
	ErrVerifierNotConfigured     = sdkerrors.Register(ModuleName, 42, "verification oracle not configured")
	ErrStakeLedgerNotConfigured  = sdkerrors.Register(ModuleName, 43, "stake ledger not configured")
	ErrReputationUpdateFailed    = sdkerrors.Register(ModuleName, 44, "reputation update failed")
)

func init() {
	failure.Register(failure.KindValidation,
		ErrEscrowAmountZero, ErrDeadlineMustBeInFuture, ErrInvalidDataRef, ErrInvalidDigest,
		ErrMissingProgramID, ErrInvalidAddress, ErrInvalidJobID, ErrInvalidDenom, ErrInvalidParams,
		ErrInvalidLifecycle, ErrInvalidJobStatusName, ErrInvalidResultRef, ErrInvalidJobOutputs,
		ErrProofTooLarge, ErrInvalidGenesis, ErrInvalidRequest)
	failure.Register(failure.KindAuthorization,
		ErrOnlyClient, ErrOnlyAssignedProviderCanSubmit, ErrProviderNotRegisteredOrInsufficientStake)
	failure.Register(failure.KindNotFound, ErrJobNotFound)
	failure.Register(failure.KindState,
		ErrInvalidJobStatus, ErrDeadlinePassed, ErrJobAlreadyHasProvider, ErrLifecycleMismatch)
	failure.Register(failure.KindExternal,
		ErrTokenTransferFailed, ErrZKProofVerificationFailed, ErrVerifierNotConfigured,
		ErrStakeLedgerNotConfigured, ErrReputationUpdateFailed)
}

// ErrorWithRecovery wraps an error with recovery suggestions
type ErrorWithRecovery struct {
	Err      error
	Recovery string
}

func (e *ErrorWithRecovery) Error() string {
	return e.Err.Error()
}

func (e *ErrorWithRecovery) Unwrap() error {
	return e.Err
}

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrEscrowAmountZero:       "Escrow a positive amount of the payment denom.",
	ErrDeadlineMustBeInFuture: "Choose a deadline after the current time. Deadlines are exclusive: a job expires at the deadline instant.",
	ErrInvalidDataRef:         "Use a content identifier (ipfs://, ar://, https:// or a bare CID) under the maximum length.",
	ErrMissingProgramID:       "Single-phase jobs are settled by proof. Pass the 32-byte program id of the verification circuit.",

	ErrOnlyClient:                    "Only the account that created the job may cancel or claim it.",
	ErrOnlyAssignedProviderCanSubmit: "Results and proofs are accepted only from the provider bound at acceptance.",

	ErrProviderNotRegisteredOrInsufficientStake: "Stake at least the minimum provider stake in the collateral module before accepting jobs. Query compute params for the current minimum.",

	ErrJobNotFound:           "Verify the job id. Query jobs to list existing ids.",
	ErrInvalidJobStatus:      "The job is not in a status that allows this action. Query the job for its current status.",
	ErrDeadlinePassed:        "The job deadline has passed. Late submissions are rejected and recorded against the provider's reputation.",
	ErrJobAlreadyHasProvider: "Another provider already accepted this job. Choose a job in created status.",
	ErrLifecycleMismatch:     "Check the job lifecycle: submit-result and claim apply to two-phase jobs only.",

	ErrTokenTransferFailed:       "Check the client's balance and the allowance granted to the compute module account, then resubmit.",
	ErrZKProofVerificationFailed: "The proof did not verify against the job's program id and the submitted output hash. Regenerate the proof and resubmit before the deadline.",
	ErrVerifierNotConfigured:     "An admin must set a registered verifier with set-verifier.",
	ErrStakeLedgerNotConfigured:  "An admin must set a registered stake ledger with set-stake-ledger.",
}

// WrapWithRecovery wraps an error with recovery suggestion
func WrapWithRecovery(err error, msg string, args ...interface{}) error {
	wrapped := sdkerrors.Wrapf(err, msg, args...)

	if suggestion, ok := RecoverySuggestions[err]; ok {
		return &ErrorWithRecovery{
			Err:      wrapped,
			Recovery: suggestion,
		}
	}

	return wrapped
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for layer := err; layer != nil; layer = errors.Unwrap(layer) {
		var withRecovery *ErrorWithRecovery
		if errors.As(layer, &withRecovery) {
			return withRecovery.Recovery
		}
		for sentinel, suggestion := range RecoverySuggestions {
			if layer == sentinel {
				return suggestion
			}
		}
	}

	return "No recovery suggestion available. Check error message for details."
}
