package types

import (
	"cosmossdk.io/math"
)

// GenesisState defines the compute module's genesis state.
type GenesisState struct {
	Params      Params      `json:"params"`
	Jobs        []Job       `json:"jobs"`
	NextJobID   uint64      `json:"next_job_id"`
	EscrowStats EscrowStats `json:"escrow_stats"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Jobs:        []Job{},
		NextJobID:   1,
		EscrowStats: NewEscrowStats(),
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.NextJobID == 0 {
		return ErrInvalidGenesis.Wrap("next job id must be positive")
	}

	seen := make(map[uint64]bool)
	held := math.ZeroInt()
	for _, job := range gs.Jobs {
		if err := job.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		if seen[job.ID] {
			return ErrInvalidGenesis.Wrapf("duplicate job id %d", job.ID)
		}
		seen[job.ID] = true
		if job.ID >= gs.NextJobID {
			return ErrInvalidGenesis.Wrapf("job id %d not below next job id %d", job.ID, gs.NextJobID)
		}
		if !job.Status.IsTerminal() {
			held = held.Add(job.EscrowedAmount)
		}
	}

	stats := gs.EscrowStats
	if stats.TotalEscrowed.IsNil() || stats.TotalPaid.IsNil() || stats.TotalRefunded.IsNil() {
		return ErrInvalidGenesis.Wrap("escrow stats must be set")
	}
	if !stats.Outstanding().Equal(held) {
		return ErrInvalidGenesis.Wrapf("escrow stats outstanding %s, jobs hold %s", stats.Outstanding(), held)
	}
	return nil
}
