package types

// Token module event types
const (
	EventTypeTransfer = "transfer"
	EventTypeApproval = "approval"
	EventTypeMint     = "mint"

	AttributeKeySender    = "sender"
	AttributeKeyRecipient = "recipient"
	AttributeKeyOwner     = "owner"
	AttributeKeySpender   = "spender"
	AttributeKeyAmount    = "amount"
	AttributeKeyDenom     = "denom"
)
