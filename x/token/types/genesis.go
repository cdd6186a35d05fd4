package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is an account's holdings.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// GenesisState is the token module's genesis state.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	seen := make(map[string]bool)
	for _, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidAddress.Wrapf("balance %s: %s", b.Address, err)
		}
		if seen[b.Address] {
			return fmt.Errorf("duplicate balance for %s", b.Address)
		}
		seen[b.Address] = true
		if err := b.Coins.Validate(); err != nil {
			return ErrInvalidAmount.Wrapf("balance %s: %s", b.Address, err)
		}
	}
	return nil
}
