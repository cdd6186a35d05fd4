package types

// Event types for the Compute module
// All event types use lowercase with underscore separator (module_action format)
const (
	// Job lifecycle events
	EventTypeJobCreated         = "job_created"
	EventTypeJobAccepted        = "job_accepted"
	EventTypeJobResultSubmitted = "job_result_submitted"
	EventTypeJobCompleted       = "job_completed"
	EventTypeJobCancelled       = "job_cancelled"

	// Escrow events
	EventTypeEscrowLocked   = "escrow_locked"
	EventTypeEscrowReleased = "escrow_released"
	EventTypeEscrowRefunded = "escrow_refunded"

	// Verification events
	EventTypeProofVerified = "proof_verified"
	EventTypeProofRejected = "proof_rejected"

	// Reputation events
	EventTypeLateSubmissionPenalized = "late_submission_penalized"

	// Admin events
	EventTypeParamsUpdated = "compute_params_updated"
)

// Event attribute keys
const (
	AttributeKeyJobID       = "job_id"
	AttributeKeyClient      = "client"
	AttributeKeyProvider    = "provider"
	AttributeKeyDataRef     = "data_ref"
	AttributeKeyAmount      = "amount"
	AttributeKeyDenom       = "denom"
	AttributeKeyDeadline    = "deadline"
	AttributeKeyProgramID   = "program_id"
	AttributeKeyLifecycle   = "lifecycle"
	AttributeKeyResultRef   = "result_ref"
	AttributeKeyOutputHash  = "output_hash"
	AttributeKeyStatus      = "status"
	AttributeKeyPrevStatus  = "previous_status"
	AttributeKeyRecipient   = "recipient"
	AttributeKeyVerifier    = "verifier"
	AttributeKeyReason      = "reason"
	AttributeKeyParam       = "param"
	AttributeKeyBefore      = "before"
	AttributeKeyAfter       = "after"
	AttributeKeySender      = "sender"
	AttributeKeyCreatedAt   = "created_at"
	AttributeKeySubmittedAt = "submitted_at"
)
