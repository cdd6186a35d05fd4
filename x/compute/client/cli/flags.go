package cli

// Flag constants for compute CLI commands
const (
	// Job flags
	FlagTTL        = "ttl"
	FlagDeadline   = "deadline"
	FlagProgramID  = "program-id"
	FlagOutputHash = "output-hash"
	FlagResultRef  = "result-ref"

	// Query flags
	FlagStatus = "status"
	FlagClient = "client"
)
