package types

// Collateral module event types
const (
	EventTypeStakeDeposited        = "stake_deposited"
	EventTypeStakeWithdrawn        = "stake_withdrawn"
	EventTypeProviderSlashed       = "provider_slashed"
	EventTypeProviderRated         = "provider_rated"
	EventTypeSlashRecipientUpdated = "slash_recipient_updated"

	AttributeKeyProvider       = "provider"
	AttributeKeyAmount         = "amount"
	AttributeKeyRequested      = "requested"
	AttributeKeyStakeAmount    = "stake_amount"
	AttributeKeyRecipient      = "recipient"
	AttributeKeyLocked         = "locked"
	AttributeKeySuccess        = "success"
	AttributeKeyJobsDone       = "jobs_done"
	AttributeKeySuccessfulJobs = "successful_jobs"
	AttributeKeyRater          = "rater"
	AttributeKeySlasher        = "slasher"
	AttributeKeyBefore         = "before"
	AttributeKeyAfter          = "after"
	AttributeKeySender         = "sender"
)
