package types

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestGenesisState_Validate(t *testing.T) {
	require.NoError(t, DefaultGenesis().Validate())

	withJobs := func() *GenesisState {
		gs := DefaultGenesis()
		open := validJob()
		done := validJob()
		done.ID = 8
		done.Status = JobStatusCompleted
		done.Provider = testProvider
		gs.Jobs = []Job{open, done}
		gs.NextJobID = 9
		gs.EscrowStats = EscrowStats{
			TotalEscrowed: math.NewInt(200),
			TotalPaid:     math.NewInt(100),
			TotalRefunded: math.ZeroInt(),
		}
		return gs
	}
	require.NoError(t, withJobs().Validate())

	tests := []struct {
		name   string
		mutate func(*GenesisState)
	}{
		{name: "zero next id", mutate: func(gs *GenesisState) { gs.NextJobID = 0 }},
		{name: "job id at next id", mutate: func(gs *GenesisState) { gs.NextJobID = 8 }},
		{name: "duplicate id", mutate: func(gs *GenesisState) { gs.Jobs[1].ID = gs.Jobs[0].ID }},
		{name: "invalid job", mutate: func(gs *GenesisState) { gs.Jobs[0].Client = "" }},
		{name: "stats mismatch", mutate: func(gs *GenesisState) { gs.EscrowStats.TotalPaid = math.NewInt(99) }},
		{name: "unset stats", mutate: func(gs *GenesisState) { gs.EscrowStats.TotalRefunded = math.Int{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := withJobs()
			tt.mutate(gs)
			require.ErrorIs(t, gs.Validate(), ErrInvalidGenesis)
		})
	}

	gs := DefaultGenesis()
	gs.Params.PaymentDenom = ""
	require.ErrorIs(t, gs.Validate(), ErrInvalidParams)
}
