package types

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgCreateJob           = "create_job"
	TypeMsgAcceptJob           = "accept_job"
	TypeMsgCancelJob           = "cancel_job"
	TypeMsgSubmitResult        = "submit_result"
	TypeMsgClaimAndPay         = "claim_and_pay"
	TypeMsgSubmitProofAndClaim = "submit_proof_and_claim"
	TypeMsgSetMinProviderStake = "set_min_provider_stake"
	TypeMsgSetVerifier         = "set_verifier"
	TypeMsgSetStakeLedger      = "set_stake_ledger"
	TypeMsgSetLifecycle        = "set_lifecycle"
)

// MsgCreateJob escrows Amount of the payment denom for a new job.
type MsgCreateJob struct {
	Sender    string    `json:"sender"`
	DataRef   string    `json:"data_ref"`
	Amount    math.Int  `json:"amount"`
	Deadline  time.Time `json:"deadline"`
	ProgramID Digest    `json:"program_id"`
}

type MsgCreateJobResponse struct {
	JobID uint64 `json:"job_id"`
}

// MsgAcceptJob binds Sender as the job's provider.
type MsgAcceptJob struct {
	Sender string `json:"sender"`
	JobID  uint64 `json:"job_id"`
}

type MsgAcceptJobResponse struct{}

// MsgCancelJob refunds the job's escrow to its client.
type MsgCancelJob struct {
	Sender string `json:"sender"`
	JobID  uint64 `json:"job_id"`
}

type MsgCancelJobResponse struct {
	Refunded math.Int `json:"refunded"`
}

// MsgSubmitResult records a result for a two-phase job.
type MsgSubmitResult struct {
	Sender    string `json:"sender"`
	JobID     uint64 `json:"job_id"`
	ResultRef string `json:"result_ref"`
}

type MsgSubmitResultResponse struct{}

// MsgClaimAndPay releases a two-phase job's escrow after the client
// accepts the submitted result.
type MsgClaimAndPay struct {
	Sender string `json:"sender"`
	JobID  uint64 `json:"job_id"`
}

type MsgClaimAndPayResponse struct {
	Paid math.Int `json:"paid"`
}

// MsgSubmitProofAndClaim verifies Proof against the job's program and
// OutputHash, then pays the provider.
type MsgSubmitProofAndClaim struct {
	Sender     string `json:"sender"`
	JobID      uint64 `json:"job_id"`
	Proof      []byte `json:"proof"`
	OutputHash Digest `json:"output_hash"`
	ResultRef  string `json:"result_ref"`
}

type MsgSubmitProofAndClaimResponse struct {
	Paid math.Int `json:"paid"`
}

// MsgSetMinProviderStake sets the minimum stake required to accept jobs.
type MsgSetMinProviderStake struct {
	Sender string   `json:"sender"`
	Amount math.Int `json:"amount"`
}

// MsgSetVerifier selects a registered verifier. An empty Name disables
// proof settlement.
type MsgSetVerifier struct {
	Sender string `json:"sender"`
	Name   string `json:"name"`
}

// MsgSetStakeLedger selects a registered stake ledger. An empty Name
// disables job acceptance.
type MsgSetStakeLedger struct {
	Sender string `json:"sender"`
	Name   string `json:"name"`
}

// MsgSetLifecycle sets the lifecycle applied to jobs created afterwards.
type MsgSetLifecycle struct {
	Sender    string    `json:"sender"`
	Lifecycle Lifecycle `json:"lifecycle"`
}

// MsgUpdateParamsResponse is returned by every admin setter.
type MsgUpdateParamsResponse struct{}

func (MsgCreateJob) Route() string { return RouterKey }
func (MsgCreateJob) Type() string  { return TypeMsgCreateJob }

func (m MsgCreateJob) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgCreateJob) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.Amount.IsNil() || !m.Amount.IsPositive() {
		return ErrEscrowAmountZero
	}
	if m.Deadline.IsZero() {
		return ErrDeadlineMustBeInFuture.Wrap("deadline is required")
	}
	return ValidateContentRef(m.DataRef)
}

func (MsgAcceptJob) Route() string { return RouterKey }
func (MsgAcceptJob) Type() string  { return TypeMsgAcceptJob }

func (m MsgAcceptJob) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgAcceptJob) ValidateBasic() error {
	return validateJobMsg(m.Sender, m.JobID)
}

func (MsgCancelJob) Route() string { return RouterKey }
func (MsgCancelJob) Type() string  { return TypeMsgCancelJob }

func (m MsgCancelJob) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgCancelJob) ValidateBasic() error {
	return validateJobMsg(m.Sender, m.JobID)
}

func (MsgSubmitResult) Route() string { return RouterKey }
func (MsgSubmitResult) Type() string  { return TypeMsgSubmitResult }

func (m MsgSubmitResult) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgSubmitResult) ValidateBasic() error {
	if err := validateJobMsg(m.Sender, m.JobID); err != nil {
		return err
	}
	if err := ValidateContentRef(m.ResultRef); err != nil {
		return ErrInvalidResultRef.Wrap(err.Error())
	}
	return nil
}

func (MsgClaimAndPay) Route() string { return RouterKey }
func (MsgClaimAndPay) Type() string  { return TypeMsgClaimAndPay }

func (m MsgClaimAndPay) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgClaimAndPay) ValidateBasic() error {
	return validateJobMsg(m.Sender, m.JobID)
}

func (MsgSubmitProofAndClaim) Route() string { return RouterKey }
func (MsgSubmitProofAndClaim) Type() string  { return TypeMsgSubmitProofAndClaim }

func (m MsgSubmitProofAndClaim) GetSigner() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(m.Sender)
}

func (m MsgSubmitProofAndClaim) ValidateBasic() error {
	if err := validateJobMsg(m.Sender, m.JobID); err != nil {
		return err
	}
	if len(m.Proof) == 0 {
		return ErrZKProofVerificationFailed.Wrap("proof is empty")
	}
	if len(m.Proof) > MaxProofSize {
		return ErrProofTooLarge.Wrapf("%d bytes exceeds %d", len(m.Proof), MaxProofSize)
	}
	// empty reuses the reference recorded by submit-result
	if m.ResultRef == "" {
		return nil
	}
	if err := ValidateContentRef(m.ResultRef); err != nil {
		return ErrInvalidResultRef.Wrap(err.Error())
	}
	return nil
}

func (MsgSetMinProviderStake) Route() string { return RouterKey }
func (MsgSetMinProviderStake) Type() string  { return TypeMsgSetMinProviderStake }

func (m MsgSetMinProviderStake) GetSigner() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(m.Sender)
}

func (m MsgSetMinProviderStake) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.Amount.IsNil() || m.Amount.IsNegative() {
		return ErrInvalidParams.Wrap("min provider stake must be non-negative")
	}
	return nil
}

func (MsgSetVerifier) Route() string { return RouterKey }
func (MsgSetVerifier) Type() string  { return TypeMsgSetVerifier }

func (m MsgSetVerifier) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgSetVerifier) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return ValidateDependencyName(m.Name)
}

func (MsgSetStakeLedger) Route() string { return RouterKey }
func (MsgSetStakeLedger) Type() string  { return TypeMsgSetStakeLedger }

func (m MsgSetStakeLedger) GetSigner() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(m.Sender)
}

func (m MsgSetStakeLedger) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return ValidateDependencyName(m.Name)
}

func (MsgSetLifecycle) Route() string { return RouterKey }
func (MsgSetLifecycle) Type() string  { return TypeMsgSetLifecycle }

func (m MsgSetLifecycle) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgSetLifecycle) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return m.Lifecycle.Validate()
}

func validateSender(sender string) error {
	if _, err := sdk.AccAddressFromBech32(sender); err != nil {
		return ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	return nil
}

func validateJobMsg(sender string, jobID uint64) error {
	if err := validateSender(sender); err != nil {
		return err
	}
	if jobID == 0 {
		return ErrInvalidJobID.Wrap("job id must be positive")
	}
	return nil
}
