package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the access module's genesis state.
type GenesisState struct {
	Grants []Grant `json:"grants"`
}

// DefaultGenesis returns an empty grant set. Chains must add an admin.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Grants: []Grant{}}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	seen := make(map[string]bool)
	admins := 0
	for _, g := range gs.Grants {
		if err := g.Role.Validate(); err != nil {
			return err
		}
		if _, err := sdk.AccAddressFromBech32(g.Address); err != nil {
			return ErrInvalidAddress.Wrapf("grant %s: %s", g.Role, err)
		}
		key := fmt.Sprintf("%s/%s", g.Role, g.Address)
		if seen[key] {
			return ErrInvalidGenesis.Wrapf("duplicate grant %s", key)
		}
		seen[key] = true
		if g.Role == RoleAdmin {
			admins++
		}
	}
	if admins == 0 {
		return ErrInvalidGenesis.Wrap("at least one admin is required")
	}
	return nil
}
