package types

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// JobStatus is the position of a job in its lifecycle.
type JobStatus int32

const (
	JobStatusUnspecified JobStatus = iota
	// JobStatusCreated holds escrow with no provider bound.
	JobStatusCreated
	// JobStatusAccepted has a provider bound; escrow is still held.
	JobStatusAccepted
	// JobStatusResultSubmitted records a result awaiting claim or proof.
	// Only two-phase jobs enter it.
	JobStatusResultSubmitted
	// JobStatusCompleted paid the escrow to the provider. Terminal.
	JobStatusCompleted
	// JobStatusCancelled refunded the escrow to the client. Terminal.
	JobStatusCancelled
)

var jobStatusNames = map[JobStatus]string{
	JobStatusUnspecified:     "unspecified",
	JobStatusCreated:         "created",
	JobStatusAccepted:        "accepted",
	JobStatusResultSubmitted: "result_submitted",
	JobStatusCompleted:       "completed",
	JobStatusCancelled:       "cancelled",
}

func (s JobStatus) String() string {
	if name, ok := jobStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("JobStatus(%d)", int32(s))
}

// IsTerminal reports whether no further transition is possible.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// ParseJobStatus parses a status name.
func ParseJobStatus(name string) (JobStatus, error) {
	for s, n := range jobStatusNames {
		if n == name && s != JobStatusUnspecified {
			return s, nil
		}
	}
	return JobStatusUnspecified, ErrInvalidJobStatusName.Wrapf("%q", name)
}

func (s JobStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *JobStatus) UnmarshalJSON(bz []byte) error {
	var name string
	if err := json.Unmarshal(bz, &name); err != nil {
		return err
	}
	parsed, err := ParseJobStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Lifecycle selects the protocol shape a job follows.
type Lifecycle string

const (
	// LifecycleSinglePhase verifies the proof and pays in one call:
	// Created -> Accepted -> Completed.
	LifecycleSinglePhase Lifecycle = "single_phase"
	// LifecycleTwoPhase records a result first and pays when the client
	// claims or a proof is submitted:
	// Created -> Accepted -> ResultSubmitted -> Completed.
	LifecycleTwoPhase Lifecycle = "two_phase"
)

// Validate rejects unknown lifecycles.
func (l Lifecycle) Validate() error {
	switch l {
	case LifecycleSinglePhase, LifecycleTwoPhase:
		return nil
	default:
		return ErrInvalidLifecycle.Wrapf("%q", string(l))
	}
}

// Job is an escrowed unit of work.
type Job struct {
	ID             uint64     `json:"id"`
	Client         string     `json:"client"`
	Provider       string     `json:"provider,omitempty"`
	DataRef        string     `json:"data_ref"`
	EscrowedAmount math.Int   `json:"escrowed_amount"`
	Denom          string     `json:"denom"`
	Deadline       time.Time  `json:"deadline"`
	Status         JobStatus  `json:"status"`
	ResultRef      string     `json:"result_ref,omitempty"`
	ProgramID      Digest     `json:"program_id"`
	OutputHash     Digest     `json:"output_hash"`
	Lifecycle      Lifecycle  `json:"lifecycle"`
	CreatedAt      time.Time  `json:"created_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

// ClientAddress returns the job's client.
func (j Job) ClientAddress() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(j.Client)
}

// ProviderAddress returns the bound provider, if any.
func (j Job) ProviderAddress() (sdk.AccAddress, bool) {
	if j.Provider == "" {
		return nil, false
	}
	return sdk.MustAccAddressFromBech32(j.Provider), true
}

// Escrow returns the escrowed coin.
func (j Job) Escrow() sdk.Coin {
	return sdk.NewCoin(j.Denom, j.EscrowedAmount)
}

// Expired reports whether now is at or past the deadline.
func (j Job) Expired(now time.Time) bool {
	return !now.Before(j.Deadline)
}

// Validate checks a stored job for consistency.
func (j Job) Validate() error {
	if j.ID == 0 {
		return ErrInvalidJobID.Wrap("job id must be positive")
	}
	if _, err := sdk.AccAddressFromBech32(j.Client); err != nil {
		return ErrInvalidAddress.Wrapf("job %d client: %s", j.ID, err)
	}
	if j.Provider != "" {
		if _, err := sdk.AccAddressFromBech32(j.Provider); err != nil {
			return ErrInvalidAddress.Wrapf("job %d provider: %s", j.ID, err)
		}
	}
	if j.EscrowedAmount.IsNil() || !j.EscrowedAmount.IsPositive() {
		return ErrEscrowAmountZero.Wrapf("job %d", j.ID)
	}
	if err := sdk.ValidateDenom(j.Denom); err != nil {
		return ErrInvalidDenom.Wrapf("job %d: %s", j.ID, err)
	}
	if err := j.Lifecycle.Validate(); err != nil {
		return err
	}
	if _, ok := jobStatusNames[j.Status]; !ok || j.Status == JobStatusUnspecified {
		return ErrInvalidJobStatusName.Wrapf("job %d: %s", j.ID, j.Status)
	}
	switch j.Status {
	case JobStatusCreated:
		if j.Provider != "" {
			return ErrJobAlreadyHasProvider.Wrapf("job %d is created but bound to %s", j.ID, j.Provider)
		}
	case JobStatusAccepted, JobStatusResultSubmitted, JobStatusCompleted:
		if j.Provider == "" {
			return ErrInvalidAddress.Wrapf("job %d is %s without a provider", j.ID, j.Status)
		}
	}
	if j.Status == JobStatusResultSubmitted && j.Lifecycle != LifecycleTwoPhase {
		return ErrLifecycleMismatch.Wrapf("job %d is %s in a %s lifecycle", j.ID, j.Status, j.Lifecycle)
	}
	if j.Lifecycle == LifecycleSinglePhase && j.ProgramID.IsZero() {
		return ErrMissingProgramID.Wrapf("job %d", j.ID)
	}
	return nil
}

// EscrowStats is cumulative escrow accounting across all jobs.
type EscrowStats struct {
	TotalEscrowed math.Int `json:"total_escrowed"`
	TotalPaid     math.Int `json:"total_paid"`
	TotalRefunded math.Int `json:"total_refunded"`
}

// NewEscrowStats returns zeroed stats.
func NewEscrowStats() EscrowStats {
	return EscrowStats{
		TotalEscrowed: math.ZeroInt(),
		TotalPaid:     math.ZeroInt(),
		TotalRefunded: math.ZeroInt(),
	}
}

// Outstanding returns escrow not yet paid or refunded.
func (s EscrowStats) Outstanding() math.Int {
	return s.TotalEscrowed.Sub(s.TotalPaid).Sub(s.TotalRefunded)
}

// InvalidStatusError reports a transition attempted from the wrong status.
type InvalidStatusError struct {
	JobID    uint64
	Observed JobStatus
	Required []JobStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s: job %d is %s, requires %v", ErrInvalidJobStatus.Error(), e.JobID, e.Observed, e.Required)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidJobStatus }

// NewInvalidStatusError builds an InvalidStatusError.
func NewInvalidStatusError(jobID uint64, observed JobStatus, required ...JobStatus) error {
	return &InvalidStatusError{JobID: jobID, Observed: observed, Required: required}
}
