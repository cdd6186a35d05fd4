package types

import (
	"cosmossdk.io/math"
)

// GenesisState is the collateral module's genesis state.
type GenesisState struct {
	Params        Params            `json:"params"`
	Providers     []ProviderAccount `json:"providers"`
	LockedSlashed math.Int          `json:"locked_slashed"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		Providers:     []ProviderAccount{},
		LockedSlashed: math.ZeroInt(),
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if !gs.LockedSlashed.IsNil() && gs.LockedSlashed.IsNegative() {
		return ErrInvalidGenesis.Wrap("locked slashed balance is negative")
	}
	seen := make(map[string]bool)
	for _, p := range gs.Providers {
		if err := p.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		if seen[p.Address] {
			return ErrInvalidGenesis.Wrapf("duplicate provider %s", p.Address)
		}
		seen[p.Address] = true
	}
	return nil
}
