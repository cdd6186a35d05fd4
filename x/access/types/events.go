package types

// Access module event types
const (
	EventTypeRoleGranted = "role_granted"
	EventTypeRoleRevoked = "role_revoked"

	AttributeKeyRole    = "role"
	AttributeKeyAccount = "account"
	AttributeKeySender  = "sender"
)
